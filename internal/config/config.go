// Package config loads docsearch configuration from a YAML file with
// DOCSEARCH_* environment overrides. Every field has a default, so running
// without a file is valid.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid config")

// Config is the top-level configuration.
type Config struct {
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Server  ServerConfig  `yaml:"server"`
	MCP     MCPConfig     `yaml:"mcp"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// IndexConfig locates the generated search data.
type IndexConfig struct {
	Dir      string        `yaml:"dir"`
	Section  string        `yaml:"section"`
	BaseURL  string        `yaml:"baseUrl"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// SearchConfig controls ranking and result limits.
type SearchConfig struct {
	Ranking      bool    `yaml:"ranking"`
	LabelBoost   float64 `yaml:"labelBoost"`
	NameBoost    float64 `yaml:"nameBoost"`
	WordsBoost   float64 `yaml:"wordsBoost"`
	ScopeBoost   float64 `yaml:"scopeBoost"`
	MaxEntries   int     `yaml:"maxEntries"`
	DefaultLimit int     `yaml:"defaultLimit"`
	MaxLimit     int     `yaml:"maxLimit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	ReleaseMode     bool          `yaml:"releaseMode"`

	// RateLimit is the sustained request rate per second across all
	// clients. 0 disables limiting.
	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`
}

// MCPConfig holds MCP server identity and the HTTP mount path.
type MCPConfig struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	HTTPPath string `yaml:"httpPath"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads a YAML config file (if provided) and applies environment
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			Dir:      "html/search",
			Section:  "functions",
			Debounce: 250 * time.Millisecond,
		},
		Search: SearchConfig{
			Ranking:      true,
			DefaultLimit: 20,
			MaxLimit:     200,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateBurst:       50,
		},
		MCP: MCPConfig{
			Name:     "docsearch",
			Version:  "0.1.0",
			HTTPPath: "/mcp",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Index.Dir == "":
		return fmt.Errorf("%w: index.dir is required", ErrInvalid)
	case c.Search.DefaultLimit <= 0:
		return fmt.Errorf("%w: search.defaultLimit must be positive", ErrInvalid)
	case c.Search.MaxLimit < c.Search.DefaultLimit:
		return fmt.Errorf("%w: search.maxLimit %d is below defaultLimit %d", ErrInvalid, c.Search.MaxLimit, c.Search.DefaultLimit)
	case c.Index.Debounce < 0:
		return fmt.Errorf("%w: index.debounce must not be negative", ErrInvalid)
	case c.Server.RateLimit < 0 || c.Server.RateBurst < 0:
		return fmt.Errorf("%w: server rate limit must not be negative", ErrInvalid)
	}
	return nil
}

// applyEnvOverrides reads DOCSEARCH_* variables and overrides the
// corresponding fields.
func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"DOCSEARCH_INDEX_DIR":      &cfg.Index.Dir,
		"DOCSEARCH_INDEX_SECTION":  &cfg.Index.Section,
		"DOCSEARCH_BASE_URL":       &cfg.Index.BaseURL,
		"DOCSEARCH_SERVER_ADDR":    &cfg.Server.Addr,
		"DOCSEARCH_MCP_HTTP_PATH":  &cfg.MCP.HTTPPath,
		"DOCSEARCH_LOGGING_LEVEL":  &cfg.Logging.Level,
		"DOCSEARCH_LOGGING_FORMAT": &cfg.Logging.Format,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"DOCSEARCH_INDEX_WATCH":     &cfg.Index.Watch,
		"DOCSEARCH_SEARCH_RANKING":  &cfg.Search.Ranking,
		"DOCSEARCH_METRICS_ENABLED": &cfg.Metrics.Enabled,
	}
	for key, dst := range bools {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
			}
			*dst = b
		}
	}

	ints := map[string]*int{
		"DOCSEARCH_SEARCH_DEFAULT_LIMIT": &cfg.Search.DefaultLimit,
		"DOCSEARCH_SEARCH_MAX_LIMIT":     &cfg.Search.MaxLimit,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("DOCSEARCH_SERVER_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: DOCSEARCH_SERVER_RATE_LIMIT: %v", ErrInvalid, err)
		}
		cfg.Server.RateLimit = f
	}

	if v := os.Getenv("DOCSEARCH_INDEX_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: DOCSEARCH_INDEX_DEBOUNCE: %v", ErrInvalid, err)
		}
		cfg.Index.Debounce = d
	}
	return nil
}

// ClampLimit applies the default and maximum result limits.
func (s SearchConfig) ClampLimit(limit int) int {
	if limit <= 0 {
		return s.DefaultLimit
	}
	return min(limit, s.MaxLimit)
}
