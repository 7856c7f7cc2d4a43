package gameserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/frontend/render"
	"github.com/cory-johannsen/adventure/internal/game/action"
	"github.com/cory-johannsen/adventure/internal/game/command"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/world"
	"github.com/cory-johannsen/adventure/internal/server"
	"github.com/cory-johannsen/adventure/internal/storage/memory"
	"github.com/cory-johannsen/adventure/internal/storage/postgres"
)

// Register loads the configured worlds and session store and adds the game
// server's services to lc. The returned close function releases the store.
//
// Precondition: cfg must be validated.
// Postcondition: On success lc holds the HTTP service and, when watching is
// enabled, the catalog watcher.
func Register(ctx context.Context, lc *server.Lifecycle, cfg config.Config, logger *zap.Logger) (*Server, func(), error) {
	start := time.Now()
	logger = logger.Named("gameserver")

	catalog, err := world.LoadCatalog(cfg.GameServer.ContentDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading worlds: %w", err)
	}
	logger.Info("worlds loaded",
		zap.String("dir", cfg.GameServer.ContentDir),
		zap.Int("games", catalog.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	store, pool, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {}
	if pool != nil {
		closeStore = pool.Close
		lc.Add("postgres", NewHealthService(pool, logger, HealthInterval))
	}

	srv := NewServer(
		catalog,
		session.NewManager(store),
		action.NewEngine(command.DefaultRegistry()),
		render.New(render.DefaultWidth),
		logger,
	)

	httpSrv := &http.Server{
		Addr:              cfg.GameServer.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	lc.Add("gameserver-http", server.NewHTTPService(httpSrv, logger, 5*time.Second))

	if cfg.GameServer.Watch {
		cw, err := NewCatalogWatcher(cfg.GameServer.ContentDir, srv.SetCatalog, logger, DefaultDebounce)
		if err != nil {
			closeStore()
			return nil, nil, err
		}
		lc.Add("catalog-watcher", cw)
	}
	return srv, closeStore, nil
}

// openStore returns the configured session store. The pool is nil for the
// in-memory store.
func openStore(ctx context.Context, cfg config.Config) (session.Store, *postgres.Pool, error) {
	switch cfg.GameServer.Store {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting session store: %w", err)
		}
		return postgres.NewSessionStore(pool.DB()), pool, nil
	default:
		return memory.NewStore(), nil, nil
	}
}
