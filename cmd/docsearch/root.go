package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/docsearch/discovery"
	"github.com/jonwraymond/docsearch/internal/config"
	"github.com/jonwraymond/docsearch/internal/logging"
	"github.com/jonwraymond/docsearch/search"
)

// app carries state shared by all subcommands.
type app struct {
	configPath string
	dir        string
	section    string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "docsearch",
		Short: "Search generated C++ API documentation by symbol name",
		Long: `docsearch loads the search data files that a documentation generator
writes next to its HTML output, and answers symbol lookups over HTTP,
MCP, or the command line.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&a.dir, "dir", "", "search data directory (overrides index.dir)")
	flags.StringVar(&a.section, "section", "", "search data section (overrides index.section)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newServeCmd(a),
		newMCPCmd(a),
		newLookupCmd(a),
		newTargetsCmd(a),
		newRankCmd(a),
		newExportCmd(a),
	)
	return root
}

// setup loads the configuration, applies flag overrides and installs the
// default logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dir != "" {
		cfg.Index.Dir = a.dir
	}
	if a.section != "" {
		cfg.Index.Section = a.section
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(a.logger)
	return nil
}

// newDiscovery builds a Discovery from the configuration without loading it.
func (a *app) newDiscovery(observer discovery.ReloadObserver) (*discovery.Discovery, error) {
	return discovery.New(discovery.Options{
		Dir:     a.cfg.Index.Dir,
		Section: a.cfg.Index.Section,
		BaseURL: a.cfg.Index.BaseURL,
		Ranked: search.Config{
			LabelBoost: a.cfg.Search.LabelBoost,
			NameBoost:  a.cfg.Search.NameBoost,
			WordsBoost: a.cfg.Search.WordsBoost,
			ScopeBoost: a.cfg.Search.ScopeBoost,
			MaxEntries: a.cfg.Search.MaxEntries,
		},
		DisableRanking: !a.cfg.Search.Ranking,
		Debounce:       a.cfg.Index.Debounce,
		Logger:         a.logger,
		Observer:       observer,
	})
}

// loadDiscovery builds a Discovery and loads the index, failing when no
// usable index is found.
func (a *app) loadDiscovery(cmd *cobra.Command) (*discovery.Discovery, error) {
	disc, err := a.newDiscovery(nil)
	if err != nil {
		return nil, err
	}
	if err := disc.Load(cmd.Context()); err != nil {
		_ = disc.Close()
		return nil, fmt.Errorf("loading index from %s: %w", a.cfg.Index.Dir, err)
	}
	return disc, nil
}
