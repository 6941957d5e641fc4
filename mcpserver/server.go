package mcpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/docsearch/discovery"
	"github.com/jonwraymond/docsearch/internal/config"
	"github.com/jonwraymond/docsearch/internal/logging"
)

// ServerInfo identifies the server to MCP clients.
type ServerInfo struct {
	Name    string
	Version string
}

// ToolObserver is notified of every tool call.
type ToolObserver interface {
	ObserveToolCall(tool string, err error)
}

// Config configures a Server.
type Config struct {
	ServerInfo ServerInfo

	// DefaultLimit and MaxLimit bound page sizes. Defaults: 20 and 200.
	DefaultLimit int
	MaxLimit     int

	Logger   *slog.Logger
	Observer ToolObserver
}

// Server serves a Discovery over MCP.
type Server struct {
	disc     *discovery.Discovery
	server   *mcp.Server
	cfg      Config
	log      *slog.Logger
	limits   config.SearchConfig
	observer ToolObserver
}

// New creates a Server with all tools registered.
func New(disc *discovery.Discovery, cfg Config) *Server {
	if cfg.ServerInfo.Name == "" {
		cfg.ServerInfo.Name = "docsearch"
	}
	if cfg.ServerInfo.Version == "" {
		cfg.ServerInfo.Version = "dev"
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = discovery.DefaultLimit
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = max(200, cfg.DefaultLimit)
	}
	log := logging.WithComponent("mcp")
	if cfg.Logger != nil {
		log = cfg.Logger.With("component", "mcp")
	}

	s := &Server{
		disc: disc,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.ServerInfo.Name,
			Version: cfg.ServerInfo.Version,
		}, nil),
		cfg:      cfg,
		log:      log,
		limits:   config.SearchConfig{DefaultLimit: cfg.DefaultLimit, MaxLimit: cfg.MaxLimit},
		observer: cfg.Observer,
	}
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// ServeStdio runs the server over stdin/stdout until the client
// disconnects or ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.log.Info("serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns a streamable HTTP transport handler.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func (s *Server) clampLimit(limit int) int {
	return s.limits.ClampLimit(limit)
}
