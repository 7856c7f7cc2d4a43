package gameserver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/server"
)

func TestRegister_MemoryStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "town.txt"), []byte(townText), 0o644))

	cfg := config.Config{GameServer: config.GameServerConfig{
		Host:       "127.0.0.1",
		Port:       5000,
		ContentDir: dir,
		Store:      config.StoreMemory,
		Watch:      true,
	}}
	logger := zaptest.NewLogger(t)
	srv, closeFn, err := Register(t.Context(), server.NewLifecycle(logger), cfg, logger)
	require.NoError(t, err)
	defer closeFn()

	_, ok := srv.Catalog().Get("town")
	assert.True(t, ok)
}

func TestRegister_MissingContent(t *testing.T) {
	cfg := config.Config{GameServer: config.GameServerConfig{
		ContentDir: filepath.Join(t.TempDir(), "none"),
		Store:      config.StoreMemory,
	}}
	logger := zaptest.NewLogger(t)
	_, _, err := Register(t.Context(), server.NewLifecycle(logger), cfg, logger)
	assert.Error(t, err)
}

type countingPinger struct {
	calls atomic.Int32
}

func (p *countingPinger) Health(context.Context, time.Duration) error {
	p.calls.Add(1)
	return errors.New("connection refused")
}

func TestHealthService_PingsUntilStopped(t *testing.T) {
	p := &countingPinger{}
	h := NewHealthService(p, zaptest.NewLogger(t), 5*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- h.Start() }()

	require.Eventually(t, func() bool { return p.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	h.Stop()
	h.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("health service did not stop")
	}
}
