// Shelfmark - Personal Media Tracker
//
// A local-first CLI for tracking books, movies, TV shows and games, with
// metadata from public catalogs and a Notion database as the sync target.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shelfmark/shelfmark/internal/cli"
	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/db"
	"github.com/shelfmark/shelfmark/internal/log"
	"github.com/shelfmark/shelfmark/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Load config and open database for persistent tracking ID
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs); err == nil {
		defer func() { _ = log.Close() }()
	}

	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		os.Exit(1)
	}
	defer func() {
		_ = database.Close()
	}()

	// Use persistent tracking ID from database
	telemetryClient := telemetry.New(database)
	defer telemetryClient.Close()

	if stats, err := database.GetStats(); err == nil {
		telemetryClient.TrackAppStarted("cli", stats.TotalItems)
	}

	if err := cli.Execute(ctx, telemetryClient); err != nil {
		os.Exit(1)
	}
}
