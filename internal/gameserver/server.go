// Package gameserver is the reference game server for the action contract.
// It serves the loaded worlds over HTTP and runs actions for client sessions.
package gameserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/frontend/render"
	"github.com/cory-johannsen/adventure/internal/game/action"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/world"
	"github.com/cory-johannsen/adventure/internal/gameclient"
	"github.com/cory-johannsen/adventure/internal/server"
)

// Server runs actions against the catalog's worlds. Actions on one session are
// serialized by the session manager; different sessions run concurrently.
type Server struct {
	catalog  atomic.Pointer[world.Catalog]
	sessions *session.Manager
	engine   *action.Engine
	renderer *render.Renderer
	logger   *zap.Logger
}

// NewServer creates a Server.
//
// Precondition: all arguments must be non-nil.
func NewServer(catalog *world.Catalog, sessions *session.Manager, engine *action.Engine, renderer *render.Renderer, logger *zap.Logger) *Server {
	s := &Server{
		sessions: sessions,
		engine:   engine,
		renderer: renderer,
		logger:   logger,
	}
	s.catalog.Store(catalog)
	return s
}

// Catalog returns the current game catalog.
func (s *Server) Catalog() *world.Catalog {
	return s.catalog.Load()
}

// SetCatalog replaces the game catalog. Sessions whose position no longer
// resolves in the new world are restarted on their next action.
func (s *Server) SetCatalog(c *world.Catalog) {
	s.catalog.Store(c)
}

// Handler returns the HTTP routes:
//
//	GET  /games
//	GET  /games/:shortName/world
//	POST /send-action
//	GET  /sessions/:sessionID
//	GET  /healthz
func (s *Server) Handler() http.Handler {
	engine := server.NewGinEngine(s.logger)
	engine.GET("/games", s.listGames)
	engine.GET("/games/:shortName/world", s.worldText)
	engine.POST("/send-action", s.sendAction)
	engine.GET("/sessions/:sessionID", s.sessionState)
	return engine
}

func (s *Server) listGames(c *gin.Context) {
	games := s.Catalog().Games()
	out := make([]gameclient.GameInfo, 0, len(games))
	for _, g := range games {
		out = append(out, gameclient.GameInfo{ShortName: g.ShortName, DisplayName: g.DisplayName})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) worldText(c *gin.Context) {
	g, ok := s.Catalog().Get(c.Param("shortName"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown game"})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(g.Text))
}

func (s *Server) sendAction(c *gin.Context) {
	var req gameclient.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed action request"})
		return
	}
	if !session.ValidID(req.SessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionID must be 32 alphanumeric characters"})
		return
	}
	g, ok := s.Catalog().Get(req.GameName)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown game"})
		return
	}

	narrative, err := s.Perform(c.Request.Context(), g, req.SessionID, req.Action)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "action failed"})
		return
	}
	// PureJSON keeps <, >, and & literal; the client decoder escapes them itself.
	c.PureJSON(http.StatusOK, narrative)
}

func (s *Server) sessionState(c *gin.Context) {
	sess, err := s.sessions.Get(c.Request.Context(), c.Param("sessionID"))
	switch {
	case errors.Is(err, session.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "loading session failed"})
	default:
		c.JSON(http.StatusOK, sess)
	}
}

// Perform runs one action line for a session and returns the ANSI narrative.
// A session that is new, belongs to another game, or no longer fits the world
// is started over in the start room with the world's introduction. An empty
// line describes the current room.
//
// Precondition: id must be a valid session token; g must be non-nil.
// Postcondition: The session is saved before the narrative is returned.
func (s *Server) Perform(ctx context.Context, g *world.Game, id, line string) (string, error) {
	w := g.World
	reg := s.engine.Registry()
	var narrative string

	_, err := s.sessions.Update(ctx, id, func(cur session.Session, found bool) (session.Session, error) {
		var b strings.Builder
		if !found || cur.Game != g.ShortName || cur.Validate(w) != nil {
			fresh, res, err := s.engine.Initialize(w, id, g.ShortName)
			if err != nil {
				return session.Session{}, err
			}
			s.logger.Info("session started",
				zap.String("session", id),
				zap.String("game", g.ShortName),
				zap.Bool("restarted", found),
			)
			b.WriteString(s.renderer.Intro(w))
			b.WriteString(s.renderer.Result(w, fresh, reg, res))
			if strings.TrimSpace(line) == "" {
				narrative = b.String()
				return fresh, nil
			}
			cur = fresh
		}

		next, res := s.engine.Dispatch(w, cur, line)
		s.logger.Debug("action",
			zap.String("session", id),
			zap.String("game", g.ShortName),
			zap.String("line", line),
			zap.String("handler", res.Handler),
			zap.Bool("ok", res.OK),
		)
		b.WriteString(s.renderer.Result(w, next, reg, res))
		narrative = b.String()
		return next, nil
	})
	if err != nil {
		return "", err
	}
	return narrative, nil
}
