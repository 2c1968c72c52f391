// Command web-demo runs the WebSocket endpoint with an in-memory store and
// the built-in decks, for local client development.
package main

import (
	"errors"
	"flag"
	"net/http"
	"time"

	"github.com/magefree/hexduel-server-go/internal/cardload"
	"github.com/magefree/hexduel-server-go/internal/game"
	"github.com/magefree/hexduel-server-go/internal/repository"
	"github.com/magefree/hexduel-server-go/internal/server"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	seed := flag.Uint("seed", 0, "shuffle seed, 0 picks one from the clock")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store := repository.NewMemoryStore()
	hub := server.NewHub(logger)
	engine := game.NewEngine(logger, 0)
	engine.SetResultRecorder(store)
	engine.SetNotificationHandler(hub.Publish)

	settings := game.DefaultSettings()
	settings.Seed = uint32(*seed)
	svc := server.NewMatchService(engine, store, cardload.DefaultDecks(), settings, logger)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           server.NewHTTPHandler(svc, hub, nil, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("web demo listening",
		zap.String("address", *addr),
		zap.String("websocket", "ws://localhost"+*addr+"/ws"),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("web demo stopped", zap.Error(err))
	}
}
