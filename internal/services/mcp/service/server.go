// Package service hosts the ziwei MCP server over stdio or streamable HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/ziwei/internal/platform/timeouts"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
	"github.com/louisbranch/ziwei/internal/services/mcp/domain"
)

const (
	// serverName identifies the MCP server to clients.
	serverName = "ziwei-mcp"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Supported transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config selects how the MCP server is reached.
type Config struct {
	Transport string
	// HTTPAddr is the listen address for the HTTP transport.
	HTTPAddr string
}

// Server exposes the chart engine as MCP tools.
type Server struct {
	mcpServer *mcp.Server
}

// New creates an MCP server with every chart tool registered.
func New() (*Server, error) {
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerTools(mcpServer, renderer)
	return &Server{mcpServer: mcpServer}, nil
}

func registerTools(server *mcp.Server, renderer *render.Renderer) {
	mcp.AddTool(server, domain.CalculateChartTool(), domain.CalculateChartHandler(renderer))
	mcp.AddTool(server, domain.LunarDateTool(), domain.LunarDateHandler(renderer))
	mcp.AddTool(server, domain.RulesTool(), domain.RulesHandler(renderer))
}

// Run creates a server and serves it on the configured transport until ctx
// ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New()
	if err != nil {
		return err
	}
	switch cfg.Transport {
	case "", TransportStdio:
		return server.Serve(ctx)
	case TransportHTTP:
		addr := cfg.HTTPAddr
		if addr == "" {
			addr = "localhost:8081"
		}
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return server.serveHTTP(ctx, listener)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// serveHTTP serves the streamable HTTP transport on listener until ctx ends.
func (s *Server) serveHTTP(ctx context.Context, listener net.Listener) error {
	if s == nil || s.mcpServer == nil {
		_ = listener.Close()
		return fmt.Errorf("MCP server is not configured")
	}
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("MCP server listening at http://%v", listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP HTTP server: %w", err)
		}
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve MCP HTTP: %w", err)
	}
}
