// Package server serves a preview MCP server over streamable HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/handlers"
)

// Server manages the HTTP server and routes.
type Server struct {
	mcp     *mcpserver.StreamableHTTPServer
	health  *handlers.HealthHandler
	version *handlers.VersionHandler
	router  *http.ServeMux
	server  *http.Server
	logger  *common.Logger
}

// New creates an HTTP server exposing mcpSrv at /mcp on addr.
func New(logger *common.Logger, addr string, mcpSrv *mcpserver.MCPServer, tools int) *Server {
	s := &Server{
		mcp:     mcpserver.NewStreamableHTTPServer(mcpSrv, mcpserver.WithStateLess(true)),
		health:  handlers.NewHealthHandler(logger, tools),
		version: handlers.NewVersionHandler(logger),
		logger:  logger,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Str("endpoint", "/mcp").
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
