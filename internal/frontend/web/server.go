// Package web serves the browser front end: a static play page and a JSON
// and websocket API that relays actions to the game server and returns
// decoded HTML narrative.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/frontend/ansi"
	"github.com/cory-johannsen/adventure/internal/frontend/render"
	"github.com/cory-johannsen/adventure/internal/game/action"
	"github.com/cory-johannsen/adventure/internal/game/command"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/world"
	"github.com/cory-johannsen/adventure/internal/gameclient"
	"github.com/cory-johannsen/adventure/internal/server"
)

//go:embed static
var staticFiles embed.FS

// GameServer is the part of the game server contract the web front end uses.
type GameServer interface {
	ListGames(ctx context.Context) ([]gameclient.GameInfo, error)
	FetchWorld(ctx context.Context, shortName string) (string, error)
	SendAction(ctx context.Context, req gameclient.ActionRequest) (string, error)
}

// Server is the web front end.
type Server struct {
	games    GameServer
	logger   *zap.Logger
	upgrader websocket.Upgrader
	engine   *action.Engine
	renderer *render.Renderer
}

// NewServer creates a Server relaying to games. allowedOrigins lists the
// origins accepted on the websocket endpoint; when empty only same-origin
// upgrades are accepted.
//
// Precondition: games and logger must be non-nil.
func NewServer(games GameServer, logger *zap.Logger, allowedOrigins []string) *Server {
	s := &Server{
		games:    games,
		logger:   logger,
		engine:   action.NewEngine(command.DefaultRegistry()),
		renderer: render.New(render.DefaultWidth),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return s
}

// Handler returns the HTTP routes:
//
//	GET  /                         play page
//	GET  /static/*filepath         page assets
//	GET  /api/games
//	GET  /api/games/:name/world    world summary
//	POST /api/send-action          decoded narrative
//	GET  /api/ws                   websocket play channel
//	GET  /healthz
func (s *Server) Handler() http.Handler {
	engine := server.NewGinEngine(s.logger)

	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The embedded directory is fixed at build time.
		panic(err)
	}
	index, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		panic(err)
	}
	engine.StaticFS("/static", http.FS(assets))
	engine.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})

	api := engine.Group("/api")
	api.GET("/games", s.listGames)
	api.GET("/games/:name/world", s.worldSummary)
	api.POST("/send-action", s.sendAction)
	api.GET("/ws", s.serveWS)
	return engine
}

func (s *Server) listGames(c *gin.Context) {
	games, err := s.games.ListGames(c.Request.Context())
	if err != nil {
		s.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// WorldSummary is the outline of a world shown before play.
type WorldSummary struct {
	ShortName string           `json:"shortName"`
	Title     string           `json:"title"`
	Objective string           `json:"objective"`
	Start     string           `json:"start"`
	Sections  []SectionSummary `json:"sections"`
	Items     int              `json:"items"`
	Persons   int              `json:"persons"`
}

// SectionSummary names a section and counts its rooms.
type SectionSummary struct {
	Name  string `json:"name"`
	Rooms int    `json:"rooms"`
}

// Summarize outlines w without revealing room contents.
func Summarize(shortName string, w *world.World) WorldSummary {
	sum := WorldSummary{
		ShortName: shortName,
		Title:     w.Title,
		Objective: w.Objective,
		Start:     w.Start,
		Sections:  make([]SectionSummary, 0, len(w.SectionOrder)),
		Items:     len(w.Items),
		Persons:   len(w.Persons),
	}
	for _, name := range w.SectionOrder {
		sum.Sections = append(sum.Sections, SectionSummary{Name: name, Rooms: len(w.Sections[name].Rooms)})
	}
	return sum
}

func (s *Server) worldSummary(c *gin.Context) {
	name := c.Param("name")
	text, err := s.games.FetchWorld(c.Request.Context(), name)
	if err != nil {
		s.upstreamError(c, err)
		return
	}
	w, err := world.Parse(text)
	if err != nil {
		s.logger.Warn("game server sent an invalid world", zap.String("game", name), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "the game server sent an invalid world"})
		return
	}
	c.JSON(http.StatusOK, Summarize(name, w))
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
	payload, err := s.games.SendAction(c.Request.Context(), req)
	if err != nil {
		s.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, ansi.Decode(payload))
}

// upstreamError maps a game server failure to a response. Client errors from
// the game server keep their status; everything else is a gateway error.
func (s *Server) upstreamError(c *gin.Context, err error) {
	_ = c.Error(err)
	var se *gameclient.StatusError
	switch {
	case errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError:
		c.JSON(se.StatusCode, gin.H{"error": se.Message()})
	case gameclient.IsTimeout(err):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "the game server did not answer in time"})
	default:
		s.logger.Warn("game server request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not reach the game server"})
	}
}
