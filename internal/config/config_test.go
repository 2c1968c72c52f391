package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":50051", cfg.Server.GRPCAddress)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  grpc_address: ":6000"
  max_matches: 4
logging:
  level: debug
  format: json
game:
  deck_file: decks.json
  seed: 99
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("HEXDUEL_DATABASE_DRIVER", "postgres")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Server.GRPCAddress)
	assert.Equal(t, 4, cfg.Server.MaxMatches)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "decks.json", cfg.Game.DeckFile)
	assert.Equal(t, uint32(99), cfg.Game.Seed)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("HEXDUEL_DATABASE_DRIVER", "oracle")
	_, err := Load("")
	assert.Error(t, err)
}

func TestGameConfigDefaults(t *testing.T) {
	c := DefaultGameConfig()
	assert.Equal(t, uint8(5), c.GetUint8(KeyInitialHandSize, 0))
	assert.Equal(t, uint8(7), c.GetUint8(KeyMaxHandSize, 0))
	assert.Equal(t, uint8(3), c.GetUint8(KeyMaxActionsPerTurn, 0))
	assert.Equal(t, 20, c.GetInt(KeyInitialHealth, 0))
	assert.Equal(t, 0, c.GetInt(KeyRandomSeed, 1))
	assert.Equal(t, "fallback", c.GetString("player_name", "fallback"))
}

func TestParseGameConfig(t *testing.T) {
	c, err := ParseGameConfig([]byte(`
# rules for a short match
initial_hand_size = 3
MAX_ACTIONS_PER_TURN=2
debug_mode=yes
aggression=0.75
huge=300
broken=abc
`))
	require.NoError(t, err)

	assert.Equal(t, uint8(3), c.GetUint8(KeyInitialHandSize, 5))
	assert.Equal(t, uint8(2), c.GetUint8(KeyMaxActionsPerTurn, 3))
	assert.Equal(t, uint8(7), c.GetUint8(KeyMaxHandSize, 0))
	assert.True(t, c.GetBool("debug_mode", false))
	assert.InDelta(t, 0.75, c.GetFloat("aggression", 0), 1e-9)
	assert.Equal(t, uint8(9), c.GetUint8("huge", 9))
	assert.Equal(t, 4, c.GetInt("broken", 4))
	assert.False(t, c.GetBool("broken", true))
}

func TestGameConfigSetters(t *testing.T) {
	c := DefaultGameConfig()
	c.SetInt(KeyMaxHandSize, 9)
	c.SetBool("debug_mode", true)
	c.Set("player_name", "Ada")

	assert.Equal(t, uint8(9), c.GetUint8(KeyMaxHandSize, 0))
	assert.True(t, c.GetBool("debug_mode", false))
	assert.Equal(t, "Ada", c.GetString("player_name", ""))
	assert.Contains(t, c.Keys(), "player_name")
}

func TestLoadGameConfigMissingFile(t *testing.T) {
	_, err := LoadGameConfig(filepath.Join(t.TempDir(), "nope.cfg"))
	assert.Error(t, err)
}
