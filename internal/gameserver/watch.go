package gameserver

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/game/world"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 250 * time.Millisecond

// CatalogWatcher reloads the world directory when its files change and hands
// each successfully loaded catalog to apply. A directory that fails to load
// is logged and the previous catalog stays in use.
type CatalogWatcher struct {
	dir      string
	apply    func(*world.Catalog)
	logger   *zap.Logger
	debounce time.Duration

	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// NewCatalogWatcher starts watching dir.
//
// Precondition: dir must be an existing directory; apply and logger must be non-nil.
// Postcondition: Returns a watcher ready for Start, or a non-nil error.
func NewCatalogWatcher(dir string, apply func(*world.Catalog), logger *zap.Logger, debounce time.Duration) (*CatalogWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &CatalogWatcher{
		dir:      dir,
		apply:    apply,
		logger:   logger,
		debounce: debounce,
		watcher:  fw,
		done:     make(chan struct{}),
	}, nil
}

// Start processes file events until Stop is called.
func (cw *CatalogWatcher) Start() error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if !world.IsWorldFile(filepath.Base(ev.Name)) || ev.Op == fsnotify.Chmod {
				continue
			}
			cw.logger.Debug("world file changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				timer.Reset(cw.debounce)
			}
			fire = timer.C
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			cw.logger.Warn("watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			cw.Reload()
		case <-cw.done:
			return nil
		}
	}
}

// Reload loads the directory once and applies it on success.
//
// Postcondition: Returns true if a new catalog was applied.
func (cw *CatalogWatcher) Reload() bool {
	start := time.Now()
	c, err := world.LoadCatalog(cw.dir)
	if err != nil {
		cw.logger.Error("reloading worlds; keeping previous catalog",
			zap.String("dir", cw.dir),
			zap.Error(err),
		)
		return false
	}
	cw.apply(c)
	cw.logger.Info("worlds reloaded",
		zap.String("dir", cw.dir),
		zap.Int("games", c.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return true
}

// Stop ends Start and releases the watcher.
func (cw *CatalogWatcher) Stop() {
	cw.stopOnce.Do(func() {
		close(cw.done)
		_ = cw.watcher.Close()
	})
}
