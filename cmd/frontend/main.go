// Package main provides the player-facing front ends: the browser front end
// and the Telnet front end. In standalone mode it also runs the reference game
// server in-process.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/frontend/render"
	"github.com/cory-johannsen/adventure/internal/frontend/telnet"
	"github.com/cory-johannsen/adventure/internal/frontend/web"
	"github.com/cory-johannsen/adventure/internal/game/action"
	"github.com/cory-johannsen/adventure/internal/game/command"
	"github.com/cory-johannsen/adventure/internal/gameclient"
	"github.com/cory-johannsen/adventure/internal/gameserver"
	"github.com/cory-johannsen/adventure/internal/observability"
	"github.com/cory-johannsen/adventure/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if cfg.Server.Mode == config.ModeGameServer {
		log.Fatalf("server.mode %q runs cmd/gameserver, not the front ends", cfg.Server.Mode)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting frontend",
		zap.String("mode", cfg.Server.Mode),
		zap.String("web_addr", cfg.Web.Addr()),
		zap.String("gameserver_url", cfg.GameClient.BaseURL),
	)

	lifecycle := server.NewLifecycle(logger)

	if cfg.Server.Mode == config.ModeStandalone {
		_, closeStore, err := gameserver.Register(ctx, lifecycle, cfg, logger)
		if err != nil {
			logger.Fatal("initializing embedded game server", zap.Error(err))
		}
		defer closeStore()
	}

	games, err := gameclient.New(cfg.GameClient.BaseURL, cfg.GameClient.Timeout, logger)
	if err != nil {
		logger.Fatal("creating game server client", zap.Error(err))
	}

	webSrv := web.NewServer(games, logger.Named("web"), cfg.Web.AllowedOrigins)
	lifecycle.Add("web", server.NewHTTPService(&http.Server{
		Addr:              cfg.Web.Addr(),
		Handler:           webSrv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
	}, logger, 5*time.Second))

	if cfg.Telnet.Enabled() {
		bridge := telnet.NewBridge(
			games,
			action.NewEngine(command.DefaultRegistry()),
			render.New(render.DefaultWidth),
			logger.Named("telnet"),
			cfg.Telnet.IdleTimeout,
			cfg.Telnet.IdleGracePeriod,
		)
		lifecycle.Add("telnet", telnet.NewAcceptor(cfg.Telnet, bridge, logger))
	}

	logger.Info("frontend initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("web_addr", cfg.Web.Addr()),
		zap.Bool("telnet", cfg.Telnet.Enabled()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
