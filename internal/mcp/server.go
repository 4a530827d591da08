// Package mcp exposes the EDD store as Model Context Protocol tools.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/eddmcp/eddmcp/internal/edd"
)

// Server wraps the mcp-go server with the EDD tool registrations. It
// exposes store resources (products, sales, customers, discounts,
// download logs, stats) as read-only tools for AI agents.
type Server struct {
	client *edd.Client
	logger *slog.Logger
	server *server.MCPServer
}

// NewServer creates a Server pre-loaded with all EDD tools. The
// returned server is ready to serve over stdio or HTTP.
func NewServer(client *edd.Client, logger *slog.Logger, version string) *Server {
	s := &Server{
		client: client,
		logger: logger,
	}

	mcpServer := server.NewMCPServer(
		"Easy Digital Downloads",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.server = mcpServer
	return s
}

// Server returns the underlying mcp-go MCPServer instance. Useful for
// testing.
func (s *Server) Server() *server.MCPServer {
	return s.server
}

// ServeStdio starts the server in stdio mode, the integration path for
// MCP hosts that launch the adapter as a subprocess.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting MCP server in stdio mode")
	return server.ServeStdio(s.server)
}

// ServeHTTP starts the server in Streamable HTTP mode, listening on the
// given address (e.g. ":3001").
func (s *Server) ServeHTTP(addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.server)
	s.logger.Info("MCP HTTP server starting", "addr", addr)
	return httpServer.Start(addr)
}

// readOnlyAnnotation marks a tool as non-mutating. Every EDD tool is
// read-only; the upstream API is GET-only.
func readOnlyAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(true),
	}
}

func boolPtr(b bool) *bool {
	return &b
}
