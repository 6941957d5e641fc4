package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/docsearch/searchdata"
)

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded section as a single search data file",
		Long: `export loads every shard of the section and writes the entries, in
table order, as one search data file. The output loads back to the same
table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			disc, err := a.loadDiscovery(cmd)
			if err != nil {
				return err
			}
			defer disc.Close()

			tbl, err := disc.Table()
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return searchdata.Encode(cmd.OutOrStdout(), tbl.Entries())
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := searchdata.Encode(f, tbl.Entries()); err != nil {
				_ = f.Close()
				return fmt.Errorf("writing %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Info("exported index", "entries", tbl.Len(), "file", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - or empty for stdout")
	return cmd
}
