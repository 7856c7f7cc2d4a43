package gameserver

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthInterval is how often the session database is pinged.
const HealthInterval = 30 * time.Second

// Pinger checks a dependency within timeout.
type Pinger interface {
	Health(ctx context.Context, timeout time.Duration) error
}

// HealthService periodically pings the session database and logs failures.
// It satisfies server.Service.
type HealthService struct {
	target   Pinger
	logger   *zap.Logger
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewHealthService creates a HealthService for target.
//
// Precondition: target and logger must be non-nil; interval must be positive.
func NewHealthService(target Pinger, logger *zap.Logger, interval time.Duration) *HealthService {
	return &HealthService{
		target:   target,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start pings the target every interval until Stop is called.
func (h *HealthService) Start() error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.stop:
			return nil
		case <-ticker.C:
			if err := h.target.Health(context.Background(), 5*time.Second); err != nil {
				h.logger.Warn("database health check failed", zap.Error(err))
			}
		}
	}
}

// Stop ends the ping loop.
func (h *HealthService) Stop() {
	h.once.Do(func() { close(h.stop) })
}
