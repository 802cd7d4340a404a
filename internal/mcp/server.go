// Package mcp provides the Model Context Protocol server for Shelfmark.
//
// The server exposes the local library to MCP-compatible clients as a
// set of read-only tools and resources. Mutations stay in the CLI; an
// assistant can look things up but never edit the library.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/db"
	"github.com/shelfmark/shelfmark/internal/telemetry"
	"github.com/shelfmark/shelfmark/pkg/version"
)

// Server wraps the MCP server with library access.
type Server struct {
	db        *db.DB
	cfg       *config.Config
	server    *server.MCPServer
	telemetry telemetry.Client
}

// NewServer creates a new MCP server instance.
func NewServer(database *db.DB, cfg *config.Config, tc telemetry.Client) *Server {
	s := &Server{
		db:        database,
		cfg:       cfg,
		telemetry: tc,
	}

	s.server = server.NewMCPServer(
		"shelfmark",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// Serve starts the MCP server over stdio.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.server)
}

func (s *Server) registerTools() {
	s.server.AddTool(searchLibraryTool(), s.handleSearchLibrary)
	s.server.AddTool(getItemTool(), s.handleGetItem)
	s.server.AddTool(listByStatusTool(), s.handleListByStatus)
	s.server.AddTool(libraryStatsTool(), s.handleLibraryStats)
}

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"shelfmark://item/{id}",
			"Library item",
			mcp.WithTemplateDescription("JSON record of a library item including its kind-specific detail"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleItemResource,
	)
}
