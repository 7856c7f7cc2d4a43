// Package main provides the reference game server binary that serves worlds
// and runs actions over the HTTP game server contract.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/gameserver"
	"github.com/cory-johannsen/adventure/internal/observability"
	"github.com/cory-johannsen/adventure/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	contentDir := flag.String("content", "", "override gameserver.content_dir")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *contentDir != "" {
		cfg.GameServer.ContentDir = *contentDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("addr", cfg.GameServer.Addr()),
		zap.String("store", cfg.GameServer.Store),
	)

	lifecycle := server.NewLifecycle(logger)
	srv, closeStore, err := gameserver.Register(ctx, lifecycle, cfg, logger)
	if err != nil {
		logger.Fatal("initializing game server", zap.Error(err))
	}
	defer closeStore()

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Int("games", srv.Catalog().Len()),
		zap.Bool("watch", cfg.GameServer.Watch),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		closeStore()
		logger.Sync()
		log.Fatalf("server error: %v", err)
	}
}
