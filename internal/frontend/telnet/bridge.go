package telnet

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/client"
	"github.com/cory-johannsen/adventure/internal/frontend/ansi"
	"github.com/cory-johannsen/adventure/internal/frontend/render"
	"github.com/cory-johannsen/adventure/internal/game/action"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/gameclient"
)

// GameServer is the part of the game server contract the bridge uses.
type GameServer interface {
	ListGames(ctx context.Context) ([]gameclient.GameInfo, error)
	SendAction(ctx context.Context, req gameclient.ActionRequest) (string, error)
}

// Bridge is a SessionHandler that lets a Telnet user pick a game and play it
// on the game server. Each connection gets its own session ID and Action
// Client.
type Bridge struct {
	games       GameServer
	engine      *action.Engine
	renderer    *render.Renderer
	logger      *zap.Logger
	idleTimeout time.Duration
	idleGrace   time.Duration
}

// NewBridge creates a Bridge. A zero idleTimeout disables idle handling.
//
// Precondition: games, engine, renderer, and logger must be non-nil.
func NewBridge(games GameServer, engine *action.Engine, renderer *render.Renderer, logger *zap.Logger, idleTimeout, idleGrace time.Duration) *Bridge {
	return &Bridge{
		games:       games,
		engine:      engine,
		renderer:    renderer,
		logger:      logger,
		idleTimeout: idleTimeout,
		idleGrace:   idleGrace,
	}
}

// connDisplay shows client output on a Telnet connection.
type connDisplay struct {
	conn *Conn
}

func (d connDisplay) Show(narrative string) {
	_ = d.conn.WriteNarrative(narrative)
}

func (d connDisplay) Notice(message string) {
	_ = d.conn.WriteLine(ansi.Colorize(ansi.Red, message))
}

// SetInputEnabled is a no-op: the bridge reads the next line only after the
// previous action returns.
func (connDisplay) SetInputEnabled(bool) {}

// HandleSession runs the game picker and then the play loop until the user
// quits or the connection closes.
//
// Postcondition: Returns nil when the user quits, or the read error.
func (b *Bridge) HandleSession(ctx context.Context, conn *Conn) error {
	if b.idleTimeout > 0 {
		conn.SetReadTimeout(b.idleTimeout)
	}
	_ = conn.WriteLine(ansi.Colorize(ansi.Banner, "Welcome, adventurer."))

	game, err := b.pickGame(ctx, conn)
	if err != nil || game == "" {
		return err
	}

	id := session.NewID()
	logger := b.logger.With(zap.String("session", id), zap.String("game", game))
	logger.Info("telnet session started", zap.String("remote_addr", conn.RemoteAddr().String()))

	cl := client.New(connDisplay{conn: conn}, b.games, b.engine, b.renderer, logger)
	if _, err := cl.Send(ctx, id, game, ""); err != nil {
		return fmt.Errorf("starting %s: %w", game, err)
	}

	for {
		_ = conn.WritePrompt(b.renderer.Prompt())
		line, err := b.readLine(conn)
		if err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "quit", "exit":
			_ = conn.WriteLine("Farewell.")
			return nil
		}
		// Transport failures are shown as notices; the player may retry.
		_, _ = cl.Send(ctx, id, game, line)
	}
}

// pickGame lists the games and reads a choice by number or short name. With a
// single game it is chosen without asking.
func (b *Bridge) pickGame(ctx context.Context, conn *Conn) (string, error) {
	games, err := b.games.ListGames(ctx)
	if err != nil {
		_ = conn.WriteLine(ansi.Colorize(ansi.Red, "The game server is unavailable. Please try again later."))
		return "", fmt.Errorf("listing games: %w", err)
	}
	switch len(games) {
	case 0:
		_ = conn.WriteLine("No games are available.")
		return "", nil
	case 1:
		return games[0].ShortName, nil
	}

	for i, g := range games {
		_ = conn.WriteLine(fmt.Sprintf("  %d. %s", i+1, g.DisplayName))
	}
	for {
		_ = conn.WritePrompt("Choose a game: ")
		line, err := b.readLine(conn)
		if err != nil {
			return "", err
		}
		choice := strings.TrimSpace(line)
		if strings.EqualFold(choice, "quit") {
			return "", nil
		}
		if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(games) {
			return games[n-1].ShortName, nil
		}
		for _, g := range games {
			if strings.EqualFold(choice, g.ShortName) {
				return g.ShortName, nil
			}
		}
		_ = conn.WriteLine(fmt.Sprintf("Pick a number from 1 to %d.", len(games)))
	}
}

// readLine reads one line. When idle handling is on, the first timeout sends
// a warning and waits one grace period more before giving up.
func (b *Bridge) readLine(conn *Conn) (string, error) {
	line, err := conn.ReadLine()
	if err == nil || !IsTimeout(err) || b.idleTimeout <= 0 {
		return line, err
	}
	if b.idleGrace <= 0 {
		return "", io.EOF
	}
	_ = conn.WriteLine(ansi.Colorize(ansi.Yellow, "You have been idle for a while. Type something to stay connected."))
	conn.SetReadTimeout(b.idleGrace)
	defer conn.SetReadTimeout(b.idleTimeout)
	line, err = conn.ReadLine()
	if IsTimeout(err) {
		_ = conn.WriteLine("Disconnected for inactivity.")
		return "", io.EOF
	}
	return line, err
}
