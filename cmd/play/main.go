// Package main provides the terminal client. It plays a world file locally or
// a game on a remote game server, remembering its session in a profile.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/client"
	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/frontend/render"
	"github.com/cory-johannsen/adventure/internal/frontend/terminal"
	"github.com/cory-johannsen/adventure/internal/game/action"
	"github.com/cory-johannsen/adventure/internal/game/command"
	"github.com/cory-johannsen/adventure/internal/game/world"
	"github.com/cory-johannsen/adventure/internal/gameclient"
	"github.com/cory-johannsen/adventure/internal/observability"
)

func main() {
	worldPath := flag.String("world", "", "play this world file locally instead of a game server")
	serverURL := flag.String("server", "", "game server base URL (default: profile, then http://127.0.0.1:5000/)")
	game := flag.String("game", "", "game short name on the server (default: profile, then the first game)")
	profilePath := flag.String("profile", "", "profile file (default: <user config dir>/adventure/profile.ini)")
	newSession := flag.Bool("new", false, "start a new session instead of resuming the saved one")
	timeout := flag.Duration("timeout", 10*time.Second, "game server request timeout")
	logLevel := flag.String("log-level", "warn", "log level written to stderr")
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggingConfig{Level: *logLevel, Format: "console"})
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if *profilePath == "" {
		if *profilePath, err = terminal.DefaultProfilePath(); err != nil {
			log.Fatalf("%v", err)
		}
	}
	profile, err := terminal.LoadProfile(*profilePath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *newSession {
		profile.SessionID = ""
	}
	profile = profile.EnsureSession()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	display := terminal.NewDisplay(os.Stdout, terminal.Interactive(os.Stdout))
	renderer := render.New(terminal.Width(os.Stdout))
	engine := action.NewEngine(command.DefaultRegistry())

	var player terminal.Player
	if *worldPath != "" {
		w, err := world.LoadFromFile(*worldPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		c := client.New(display, nil, engine, renderer, logger)
		if err := c.Initialize(w, profile.SessionID, world.ShortName(*worldPath)); err != nil {
			log.Fatalf("%v", err)
		}
		player = terminal.LocalPlayer{Client: c}
	} else {
		base := firstNonEmpty(*serverURL, profile.BaseURL, "http://127.0.0.1:5000/")
		games, err := gameclient.New(base, *timeout, logger)
		if err != nil {
			log.Fatalf("%v", err)
		}
		name, err := pickGame(ctx, games, firstNonEmpty(*game, profile.Game))
		if err != nil {
			log.Fatalf("%v", err)
		}
		if name != profile.Game {
			// A session belongs to one game.
			profile.SessionID = ""
			profile = profile.EnsureSession()
		}
		profile.Game = name
		profile.BaseURL = base
		if err := terminal.SaveProfile(*profilePath, profile); err != nil {
			logger.Warn("saving profile", zap.Error(err))
		}

		c := client.New(display, games, engine, renderer, logger)
		player = terminal.RemotePlayer{Client: c, SessionID: profile.SessionID, Game: name}
		// An empty action shows the current room.
		_ = player.Send(ctx, "")
	}

	if err := terminal.Run(ctx, os.Stdin, display, player, renderer.Prompt(), logger); err != nil && ctx.Err() == nil {
		log.Fatalf("%v", err)
	}
}

// pickGame returns want when the server has it, or the first game otherwise.
func pickGame(ctx context.Context, games *gameclient.Client, want string) (string, error) {
	list, err := games.ListGames(ctx)
	if err != nil {
		return "", fmt.Errorf("listing games: %w", err)
	}
	if len(list) == 0 {
		return "", fmt.Errorf("the game server has no games")
	}
	for _, g := range list {
		if g.ShortName == want {
			return want, nil
		}
	}
	if want != "" {
		return "", fmt.Errorf("unknown game %q", want)
	}
	return list[0].ShortName, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
