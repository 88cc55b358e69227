package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/mvp-joe/corex/internal/extractor"
)

// ServerName and ServerVersion identify the server to MCP clients.
const (
	ServerName    = "corex-mcp"
	ServerVersion = "1.0.0"
)

// MCPServer exposes comment extraction to MCP clients over stdio.
type MCPServer struct {
	mcp *server.MCPServer
}

// NewMCPServer creates a server whose tools resolve relative paths against
// projectRoot and refuse paths outside it.
func NewMCPServer(ex *extractor.Extractor, projectRoot string) (*MCPServer, error) {
	if ex == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	root, err := newProjectRoot(projectRoot)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)

	AddCorexExtractTool(mcpServer, ex, root)
	AddCorexKeywordTool(mcpServer, ex, root)
	AddCorexLanguagesTool(mcpServer, ex)

	return &MCPServer{mcp: mcpServer}, nil
}

// Server returns the underlying MCP server.
func (s *MCPServer) Server() *server.MCPServer {
	return s.mcp
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// ServeStdio returns nil once the client closes stdin.
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("server", ServerName).Msg("Starting MCP server on stdio")
		err := server.ServeStdio(s.mcp)
		if err != nil {
			err = fmt.Errorf("MCP server error: %w", err)
		}
		errCh <- err
	}()

	select {
	case <-sigCh:
		log.Info().Msg("Received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		if err == nil {
			log.Info().Msg("Client disconnected, stopping")
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
