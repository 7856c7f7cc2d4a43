// Package main provides a CLI tool for inspecting and removing sessions held
// in the Postgres session store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	show := flag.String("show", "", "print the session with this ID as JSON")
	remove := flag.String("delete", "", "delete the session with this ID")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	store := postgres.NewSessionStore(pool.DB())

	switch {
	case *show != "":
		if !session.ValidID(*show) {
			log.Fatalf("invalid session id %q", *show)
		}
		s, err := store.Load(ctx, *show)
		if err != nil {
			log.Fatalf("looking up session: %v", err)
		}
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			log.Fatalf("encoding session: %v", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
	case *remove != "":
		if err := store.Delete(ctx, *remove); err != nil {
			log.Fatalf("deleting session: %v", err)
		}
		fmt.Fprintf(os.Stdout, "deleted session %s [%s]\n", *remove, time.Since(start))
	default:
		counts, err := store.CountByGame(ctx)
		if err != nil {
			log.Fatalf("counting sessions: %v", err)
		}
		games := make([]string, 0, len(counts))
		for g := range counts {
			games = append(games, g)
		}
		sort.Strings(games)
		for _, g := range games {
			fmt.Fprintf(os.Stdout, "%-24s %d\n", g, counts[g])
		}
		fmt.Fprintf(os.Stdout, "%d game(s) [%s]\n", len(games), time.Since(start))
	}
}
