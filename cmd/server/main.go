package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magefree/hexduel-server-go/internal/cardload"
	"github.com/magefree/hexduel-server-go/internal/config"
	"github.com/magefree/hexduel-server-go/internal/game"
	"github.com/magefree/hexduel-server-go/internal/repository"
	"github.com/magefree/hexduel-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting hexduel server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Rules
	gameCfg := config.DefaultGameConfig()
	if cfg.Game.RulesFile != "" {
		gameCfg, err = config.LoadGameConfig(cfg.Game.RulesFile)
		if err != nil {
			logger.Fatal("failed to load rules", zap.String("path", cfg.Game.RulesFile), zap.Error(err))
		}
	}
	settings := game.SettingsFromConfig(gameCfg)
	if cfg.Game.Seed != 0 {
		settings.Seed = cfg.Game.Seed
	}
	logger.Info("rules loaded",
		zap.Int("initial_hand_size", settings.InitialHandSize),
		zap.Int("max_hand_size", settings.MaxHandSize),
		zap.Int("max_actions_per_turn", settings.MaxActionsPerTurn),
	)

	// Decks
	decks := cardload.DefaultDecks()
	if cfg.Game.DeckFile != "" {
		decks, err = cardload.NewLoader(logger).LoadFile(cfg.Game.DeckFile)
		if err != nil {
			logger.Fatal("failed to load decks", zap.String("path", cfg.Game.DeckFile), zap.Error(err))
		}
	}
	for _, d := range decks {
		logger.Info("deck available", zap.String("deck", d.Name), zap.Int("cards", len(d.Cards)))
	}

	store, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer store.Close()

	hub := server.NewHub(logger)
	engine := game.NewEngine(logger, cfg.Server.MaxMatches)
	engine.SetResultRecorder(store)
	engine.SetNotificationHandler(hub.Publish)
	if cfg.Server.ReplayDir != "" {
		engine.SetReplayDir(cfg.Server.ReplayDir)
		logger.Info("saving replays", zap.String("directory", cfg.Server.ReplayDir))
	}

	svc := server.NewMatchService(engine, store, decks, settings, logger)

	grpcServer, health := server.NewGRPCServer(svc, hub, logger,
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
	)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddress)
	if err != nil {
		logger.Fatal("failed to listen", zap.Error(err))
	}

	go func() {
		logger.Info("starting gRPC server", zap.String("address", cfg.Server.GRPCAddress))
		if serveErr := grpcServer.Serve(lis); serveErr != nil {
			logger.Error("gRPC server error", zap.Error(serveErr))
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddress,
		Handler:           server.NewHTTPHandler(svc, hub, cfg.Server.AllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("starting HTTP server", zap.String("address", cfg.Server.HTTPAddress))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(serveErr))
		}
	}()

	logger.Info("hexduel server initialized",
		zap.String("version", version),
		zap.String("grpc_address", cfg.Server.GRPCAddress),
		zap.String("http_address", cfg.Server.HTTPAddress),
		zap.Int("max_matches", cfg.Server.MaxMatches),
		zap.String("database_driver", cfg.Database.Driver),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()
	health.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	grpcServer.GracefulStop()

	logger.Info("hexduel server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
