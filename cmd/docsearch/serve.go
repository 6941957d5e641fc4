package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jonwraymond/docsearch/api"
	"github.com/jonwraymond/docsearch/discovery"
	"github.com/jonwraymond/docsearch/internal/metrics"
	"github.com/jonwraymond/docsearch/mcpserver"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, the HTML search page and MCP over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	// Interface values stay nil when metrics are off.
	var m *metrics.Metrics
	var observer discovery.ReloadObserver
	if a.cfg.Metrics.Enabled {
		m = metrics.New(nil)
		observer = m
	}

	disc, err := a.newDiscovery(observer)
	if err != nil {
		return err
	}
	defer disc.Close()

	// A missing index is not fatal: search stays disabled until a reload
	// or the watcher finds one.
	if err := disc.Load(ctx); err != nil {
		a.logger.Warn("starting with search disabled", "dir", a.cfg.Index.Dir, "error", err)
	}
	if a.cfg.Index.Watch {
		go func() {
			if err := disc.Watch(ctx); err != nil {
				a.logger.Error("index watcher stopped", "error", err)
			}
		}()
	}

	mcpSrv := mcpserver.New(disc, a.mcpConfig(m))

	if a.cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	opts := api.Options{
		Discovery:    disc,
		Metrics:      m,
		MetricsPath:  a.cfg.Metrics.Path,
		DefaultLimit: a.cfg.Search.DefaultLimit,
		MaxLimit:     a.cfg.Search.MaxLimit,
		MCPHandler:   mcpSrv.HTTPHandler(),
		MCPPath:      a.cfg.MCP.HTTPPath,
		Logger:       a.logger,
	}
	if a.cfg.Server.RateLimit > 0 {
		opts.RateLimiter = rate.NewLimiter(rate.Limit(a.cfg.Server.RateLimit), max(1, a.cfg.Server.RateBurst))
	}

	server := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      api.NewRouter(opts),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		a.logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown error", "error", err)
		}
	}()

	a.logger.Info("docsearch listening", "addr", server.Addr, "mcp_path", a.cfg.MCP.HTTPPath)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.logger.Info("docsearch stopped")
	return nil
}

func (a *app) mcpConfig(m *metrics.Metrics) mcpserver.Config {
	cfg := mcpserver.Config{
		ServerInfo: mcpserver.ServerInfo{
			Name:    a.cfg.MCP.Name,
			Version: a.cfg.MCP.Version,
		},
		DefaultLimit: a.cfg.Search.DefaultLimit,
		MaxLimit:     a.cfg.Search.MaxLimit,
		Logger:       a.logger,
	}
	if m != nil {
		cfg.Observer = m
	}
	return cfg
}
