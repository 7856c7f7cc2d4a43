package terminal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/client"
)

// Player plays one action line.
type Player interface {
	Send(ctx context.Context, line string) error
}

// LocalPlayer runs actions against a world loaded in-process.
type LocalPlayer struct {
	Client *client.Client
}

// Send runs line against the local world; there is no server.
func (p LocalPlayer) Send(_ context.Context, line string) error {
	_, err := p.Client.Dispatch(line)
	return err
}

// RemotePlayer submits actions to a game server.
type RemotePlayer struct {
	Client    *client.Client
	SessionID string
	Game      string
}

// Send submits line to the game server.
func (p RemotePlayer) Send(ctx context.Context, line string) error {
	_, err := p.Client.Send(ctx, p.SessionID, p.Game, line)
	return err
}

// Run reads action lines from in and plays them until EOF, "quit", or "exit".
// Transport failures are shown by the client and do not end the loop.
//
// Postcondition: Returns nil on a normal exit, or ctx.Err() when cancelled.
func Run(ctx context.Context, in io.Reader, d *Display, p Player, prompt string, logger *zap.Logger) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.Prompt(prompt)
		if !scanner.Scan() {
			d.write("\n")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "quit", "exit":
			d.write("Farewell.\n")
			return nil
		}
		if err := p.Send(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger.Debug("action failed", zap.String("line", line), zap.Error(err))
		}
	}
}
