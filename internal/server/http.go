package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPService runs an http.Server as a lifecycle Service.
type HTTPService struct {
	srv             *http.Server
	logger          *zap.Logger
	shutdownTimeout time.Duration
	listener        net.Listener
}

// NewHTTPService wraps srv. Stop waits up to shutdownTimeout for in-flight
// requests before closing connections.
//
// Precondition: srv and logger must be non-nil.
func NewHTTPService(srv *http.Server, logger *zap.Logger, shutdownTimeout time.Duration) *HTTPService {
	return &HTTPService{srv: srv, logger: logger, shutdownTimeout: shutdownTimeout}
}

// Listen binds the server's address without serving, so callers can learn
// the bound port before Start.
//
// Postcondition: Addr reports the bound address on success.
func (h *HTTPService) Listen() error {
	ln, err := net.Listen("tcp", h.srv.Addr)
	if err != nil {
		return err
	}
	h.listener = ln
	return nil
}

// Addr returns the bound listener address, or the configured one before Listen.
func (h *HTTPService) Addr() string {
	if h.listener != nil {
		return h.listener.Addr().String()
	}
	return h.srv.Addr
}

// Start serves until Stop is called.
//
// Postcondition: Returns nil after a graceful Stop, or the serve error.
func (h *HTTPService) Start() error {
	if h.listener == nil {
		if err := h.Listen(); err != nil {
			return err
		}
	}
	h.logger.Info("http server listening", zap.String("addr", h.Addr()))
	if err := h.srv.Serve(h.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (h *HTTPService) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	if err := h.srv.Shutdown(ctx); err != nil {
		h.logger.Warn("http shutdown", zap.Error(err))
	}
}
