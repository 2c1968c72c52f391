package repository

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// execer is the part of *sql.DB and *pgxpool.Pool the migration runner
// needs, adapted per backend.
type execer interface {
	exec(ctx context.Context, query string, args ...any) error
	applied(ctx context.Context, name string) (bool, error)
}

const migrationTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    name TEXT PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`

// applyMigrations runs every .sql file under root in name order, at most
// once per file.
func applyMigrations(ctx context.Context, db execer, files fs.FS, root string, now func() int64, insert string) error {
	entries, err := fs.ReadDir(files, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if err := db.exec(ctx, migrationTable); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	for _, name := range names {
		done, err := db.applied(ctx, name)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if done {
			continue
		}
		body, err := fs.ReadFile(files, root+"/"+name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := db.exec(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if err := db.exec(ctx, insert, name, now()); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}
