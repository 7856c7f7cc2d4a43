// Package client is the Action Client: it keeps a player's local view of a
// world, runs verbs against it, and submits actions to a game server with at
// most one request in flight.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/frontend/ansi"
	"github.com/cory-johannsen/adventure/internal/frontend/render"
	"github.com/cory-johannsen/adventure/internal/game/action"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/world"
	"github.com/cory-johannsen/adventure/internal/gameclient"
)

var (
	// ErrRequestInFlight is returned by Send while an earlier request is pending.
	ErrRequestInFlight = errors.New("a request is already in flight")
	// ErrNotInitialized is returned by Dispatch before Initialize.
	ErrNotInitialized = errors.New("client has no world loaded")
	// ErrNoTransport is returned by Send when the client has no game server.
	ErrNoTransport = errors.New("client has no game server")
)

// Display receives everything the client shows the player.
// Methods may be called from the goroutine running Send.
type Display interface {
	// Show presents narrative as raw ANSI text.
	Show(narrative string)
	// Notice presents a client-side message such as a network failure.
	Notice(message string)
	// SetInputEnabled enables or disables player input.
	SetInputEnabled(enabled bool)
}

// Transport submits actions to a game server.
type Transport interface {
	SendAction(ctx context.Context, req gameclient.ActionRequest) (string, error)
}

// Client runs actions locally or against a server. It is safe for concurrent use.
type Client struct {
	display   Display
	transport Transport
	engine    *action.Engine
	renderer  *render.Renderer
	logger    *zap.Logger

	inFlight atomic.Bool

	mu    sync.Mutex
	world *world.World
	sess  session.Session
}

// New creates a Client. transport may be nil for a purely local client.
//
// Precondition: display, engine, renderer, and logger must be non-nil.
func New(display Display, transport Transport, engine *action.Engine, renderer *render.Renderer, logger *zap.Logger) *Client {
	return &Client{
		display:   display,
		transport: transport,
		engine:    engine,
		renderer:  renderer,
		logger:    logger,
	}
}

// Initialize loads w as the local world, places the player in its start room
// with an empty inventory and history, and shows the opening view.
//
// Precondition: w must be a validated World.
// Postcondition: Session() is positioned at w.Start.
func (c *Client) Initialize(w *world.World, sessionID, game string) error {
	s, res, err := c.engine.Initialize(w, sessionID, game)
	if err != nil {
		return fmt.Errorf("initializing %s: %w", game, err)
	}
	c.mu.Lock()
	c.world = w
	c.sess = s
	c.mu.Unlock()

	c.display.Show(c.renderer.Intro(w) + c.renderer.Result(w, s, c.engine.Registry(), res))
	return nil
}

// Dispatch runs one action line against the local world and shows the result.
// A rejected action leaves the session unchanged.
//
// Postcondition: Returns the action Result, or ErrNotInitialized.
func (c *Client) Dispatch(line string) (action.Result, error) {
	c.mu.Lock()
	if c.world == nil {
		c.mu.Unlock()
		return action.Result{}, ErrNotInitialized
	}
	w := c.world
	next, res := c.engine.Dispatch(w, c.sess, line)
	c.sess = next
	c.mu.Unlock()

	c.logger.Debug("local action",
		zap.String("line", line),
		zap.String("handler", res.Handler),
		zap.Bool("ok", res.OK),
		zap.String("room", next.RoomID),
	)
	c.display.Show(c.renderer.Result(w, next, c.engine.Registry(), res))
	return res, nil
}

// Session returns a copy of the local session.
func (c *Client) Session() session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Clone()
}

// InFlight reports whether a Send is pending.
func (c *Client) InFlight() bool {
	return c.inFlight.Load()
}

// Send submits an action to the game server and shows its reply. Input is
// disabled for the duration of the request and re-enabled afterwards, on
// success and on failure.
//
// Postcondition: Returns the raw payload, ErrRequestInFlight if another Send
// is pending, or the transport error after showing a notice.
func (c *Client) Send(ctx context.Context, sessionID, gameName, line string) (string, error) {
	if c.transport == nil {
		return "", ErrNoTransport
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return "", ErrRequestInFlight
	}
	c.display.SetInputEnabled(false)
	defer func() {
		c.inFlight.Store(false)
		c.display.SetInputEnabled(true)
	}()

	payload, err := c.transport.SendAction(ctx, gameclient.ActionRequest{
		GameName:  gameName,
		SessionID: sessionID,
		Action:    line,
	})
	if err != nil {
		c.logger.Warn("sending action", zap.String("game", gameName), zap.Error(err))
		c.display.Notice(noticeFor(err))
		return "", err
	}
	c.display.Show(ansi.Unescape(payload))
	return payload, nil
}

func noticeFor(err error) string {
	var se *gameclient.StatusError
	switch {
	case gameclient.IsTimeout(err):
		return "The game server did not answer in time. Please try again."
	case errors.As(err, &se):
		return fmt.Sprintf("The game server rejected the action (%d).", se.StatusCode)
	case errors.Is(err, context.Canceled):
		return "The request was cancelled."
	default:
		return "Could not reach the game server."
	}
}
