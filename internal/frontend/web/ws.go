package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/client"
	"github.com/cory-johannsen/adventure/internal/frontend/ansi"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/gameclient"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = (pongWait * 9) / 10
	maxFrameBytes = 4096
)

// frame is one server-to-browser websocket message. Exactly one group of
// fields is set.
type frame struct {
	HTML         string   `json:"html,omitempty"`
	Unknown      []string `json:"unknown,omitempty"`
	Notice       string   `json:"notice,omitempty"`
	Error        string   `json:"error,omitempty"`
	InputEnabled *bool    `json:"inputEnabled,omitempty"`
}

// socket is the client.Display for one websocket. gorilla connections allow
// one concurrent writer, so every write holds mu.
type socket struct {
	conn   *websocket.Conn
	logger *zap.Logger
	mu     sync.Mutex
}

func (s *socket) write(f frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(f); err != nil {
		s.logger.Debug("websocket write", zap.Error(err))
	}
}

// Show decodes narrative the same way POST /api/send-action does.
func (s *socket) Show(narrative string) {
	d := ansi.Decode(ansi.Quote(narrative))
	s.write(frame{HTML: d.HTML, Unknown: d.Unknown})
}

func (s *socket) Notice(message string) {
	s.write(frame{Notice: message})
}

func (s *socket) SetInputEnabled(enabled bool) {
	s.write(frame{InputEnabled: &enabled})
}

func (s *socket) ping(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// serveWS runs one play channel. Each browser frame is an ActionRequest; the
// socket's client allows one request in flight and answers a second with an
// error frame.
func (s *Server) serveWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Debug("websocket upgrade", zap.Error(err))
		return
	}
	logger := s.logger.With(zap.String("remote", conn.RemoteAddr().String()))
	logger.Info("websocket connected")

	sock := &socket{conn: conn, logger: logger}
	cl := client.New(sock, s.games, s.engine, s.renderer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer conn.Close()
	defer wg.Wait()
	defer cancel()

	conn.SetReadLimit(maxFrameBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go sock.ping(ctx)

	for {
		var req gameclient.ActionRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read", zap.Error(err))
			}
			logger.Info("websocket disconnected")
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		if !session.ValidID(req.SessionID) {
			sock.write(frame{Error: "sessionID must be 32 alphanumeric characters"})
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cl.Send(ctx, req.SessionID, req.GameName, req.Action)
			if errors.Is(err, client.ErrRequestInFlight) {
				sock.write(frame{Error: err.Error()})
			}
		}()
	}
}

// originChecker accepts the listed origins, or same-origin requests when
// allowed is empty. Requests without an Origin header come from non-browser
// clients and are accepted.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowed) > 0 {
			return slices.Contains(allowed, origin)
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
