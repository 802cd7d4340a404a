// Package main provides the shelfmark-mcp server.
//
// shelfmark-mcp exposes the local media library via the Model Context
// Protocol, so an MCP-compatible assistant can search and inspect the
// library. All tools are read-only; edits stay in the shelfmark CLI.
//
// Usage:
//
//	shelfmark-mcp [flags]
//
// The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/db"
	"github.com/shelfmark/shelfmark/internal/log"
	"github.com/shelfmark/shelfmark/internal/mcp"
	"github.com/shelfmark/shelfmark/internal/telemetry"
	"github.com/shelfmark/shelfmark/pkg/version"
)

func main() {
	// Handle --version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("shelfmark-mcp %s\n", version.Version)
		os.Exit(0)
	}

	// Handle --help flag
	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		printHelp()
		os.Exit(0)
	}

	// Setup context with cancellation on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs); err == nil {
		defer func() { _ = log.Close() }()
	}

	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = database.Close()
	}()

	telemetryClient := telemetry.New(database)
	defer telemetryClient.Close()

	if stats, err := database.GetStats(); err == nil {
		telemetryClient.TrackAppStarted("mcp", stats.TotalItems)
	}

	server := mcp.NewServer(database, cfg, telemetryClient)
	if err := server.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `shelfmark-mcp - MCP server for the Shelfmark media library

USAGE:
    shelfmark-mcp [FLAGS]

FLAGS:
    -h, --help       Print this help message
    -v, --version    Print version information

DESCRIPTION:
    shelfmark-mcp is a Model Context Protocol (MCP) server that exposes
    your local media library to MCP-compatible clients. All tools are
    read-only; library edits go through the shelfmark CLI.

    The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).

CONFIGURATION:
    Add to your client's MCP configuration:

    {
      "mcpServers": {
        "shelfmark": {
          "type": "stdio",
          "command": "shelfmark-mcp"
        }
      }
    }

TOOLS PROVIDED:
    search_library   Search items by title
    get_item         Get one item with its kind-specific detail
    list_by_status   List items in a status (WANT, IN_PROGRESS, ...)
    library_stats    Library counts and last sync time

RESOURCES PROVIDED:
    shelfmark://item/{id}   Item record as JSON
`
	fmt.Print(help)
}
