package main

import (
	"github.com/spf13/cobra"

	"github.com/jonwraymond/docsearch/mcpserver"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the symbol tools over MCP on stdin/stdout",
		Long: `mcp runs an MCP server on stdin/stdout for use by MCP clients.
Logs go to stderr. The server starts even when no index can be loaded; the
tools then report that search is disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			disc, err := a.newDiscovery(nil)
			if err != nil {
				return err
			}
			defer disc.Close()

			ctx := cmd.Context()
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
			return mcpserver.New(disc, a.mcpConfig(nil)).ServeStdio(ctx)
		},
	}
}
