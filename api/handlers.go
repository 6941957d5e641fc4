package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jonwraymond/docsearch/discovery"
	"github.com/jonwraymond/docsearch/internal/config"
	"github.com/jonwraymond/docsearch/internal/logging"
	"github.com/jonwraymond/docsearch/internal/metrics"
)

// Lookup operations recorded in metrics.
const (
	opLookup   = "lookup"
	opRank     = "rank"
	opDescribe = "describe"
	opTargets  = "targets"
	opHTML     = "html"
)

// Options configures the HTTP API.
type Options struct {
	Discovery *discovery.Discovery

	// Metrics enables the metrics middleware and MetricsPath. Optional.
	Metrics     *metrics.Metrics
	MetricsPath string

	// DefaultLimit and MaxLimit bound page sizes. Defaults: 20 and 200.
	DefaultLimit int
	MaxLimit     int

	// RateLimiter bounds request throughput when set.
	RateLimiter *rate.Limiter

	// MCPHandler is mounted at MCPPath when set.
	MCPHandler http.Handler
	MCPPath    string

	Logger *slog.Logger
}

// API holds dependencies for the HTTP handlers.
type API struct {
	disc    *discovery.Discovery
	metrics *metrics.Metrics
	opts    Options
	log     *slog.Logger
	limits  config.SearchConfig
}

// NewAPI creates the handler set.
func NewAPI(opts Options) *API {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = discovery.DefaultLimit
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = max(200, opts.DefaultLimit)
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.MCPPath == "" {
		opts.MCPPath = "/mcp"
	}
	log := logging.WithComponent("api")
	if opts.Logger != nil {
		log = opts.Logger.With("component", "api")
	}
	return &API{
		disc:    opts.Discovery,
		metrics: opts.Metrics,
		opts:    opts,
		log:     log,
		limits:  config.SearchConfig{DefaultLimit: opts.DefaultLimit, MaxLimit: opts.MaxLimit},
	}
}

// NewRouter returns a gin engine with middleware and all routes installed.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware())
	if opts.Metrics != nil {
		router.Use(MetricsMiddleware(opts.Metrics))
	}
	if opts.RateLimiter != nil {
		router.Use(RateLimitMiddleware(opts.RateLimiter))
	}
	SetupRoutes(router, opts)
	return router
}

// SetupRoutes defines all routes on router.
func SetupRoutes(router *gin.Engine, opts Options) {
	api := NewAPI(opts)

	router.GET("/health", api.HealthHandler)
	router.GET("/search", api.SearchPageHandler)

	v1 := router.Group("/v1")
	{
		v1.GET("/lookup", api.LookupHandler)
		v1.GET("/rank", api.RankHandler)
		v1.GET("/symbols/:label", api.DescribeHandler)
		v1.GET("/symbols/:label/targets", api.TargetsHandler)
		v1.POST("/reload", api.ReloadHandler)
	}

	if api.metrics != nil {
		router.GET(api.opts.MetricsPath, gin.WrapH(api.metrics.Handler()))
	}
	if opts.MCPHandler != nil {
		path := "/" + strings.Trim(api.opts.MCPPath, "/")
		router.Any(path, gin.WrapH(opts.MCPHandler))
	}
}

// HealthHandler reports the index status. It answers 503 while no usable
// index is loaded so load balancers stop routing to the instance.
func (api *API) HealthHandler(c *gin.Context) {
	status := api.disc.Status()
	code := http.StatusOK
	state := "ok"
	if !status.Enabled {
		code = http.StatusServiceUnavailable
		state = "disabled"
	}
	c.JSON(code, gin.H{"status": state, "index": status})
}

// ReloadHandler reloads the index from disk.
func (api *API) ReloadHandler(c *gin.Context) {
	changed, err := api.disc.Reload(c.Request.Context())
	if err != nil {
		api.log.WarnContext(c.Request.Context(), "reload failed", "error", err)
		SendError(c, http.StatusUnprocessableEntity, ErrorCodeReloadFailed, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed, "index": api.disc.Status()})
}

func (api *API) observe(op string, n int, err error) {
	if api.metrics != nil {
		api.metrics.ObserveLookup(op, n, err)
	}
}
