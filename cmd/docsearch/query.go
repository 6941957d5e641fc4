package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/docsearch/discovery"
	"github.com/jonwraymond/docsearch/index"
	"github.com/jonwraymond/docsearch/symboldoc"
)

func newLookupCmd(a *app) *cobra.Command {
	var (
		prefix bool
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "lookup <query>",
		Short: "List symbols whose label contains the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			disc, err := a.loadDiscovery(cmd)
			if err != nil {
				return err
			}
			defer disc.Close()

			var entries []index.Entry
			if prefix {
				entries, err = disc.LookupPrefix(args[0])
			} else {
				entries, err = disc.Lookup(args[0])
			}
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			return writeEntries(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().BoolVar(&prefix, "prefix", false, "match label prefixes instead of substrings")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results, 0 for all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func newTargetsCmd(a *app) *cobra.Command {
	var detail string
	cmd := &cobra.Command{
		Use:   "targets <label>",
		Short: "Show the definitions of one symbol label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := symboldoc.ParseDetailLevel(detail)
			if err != nil {
				return err
			}
			disc, err := a.loadDiscovery(cmd)
			if err != nil {
				return err
			}
			defer disc.Close()

			doc, err := disc.Describe(args[0], level)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, doc.Summary)
			if level != symboldoc.DetailFull {
				for _, t := range doc.Targets {
					fmt.Fprintf(out, "  %s\t%s\n", t.Display, t.Href())
				}
				return nil
			}
			for i, sig := range doc.Signatures {
				fmt.Fprintf(out, "  %s\n    %s\n", sig.String(), doc.URLs[i])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&detail, "detail", string(symboldoc.DetailFull), "detail level: summary, targets, full")
	return cmd
}

func newRankCmd(a *app) *cobra.Command {
	var (
		limit  int
		scope  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "rank <query>",
		Short: "List symbols ordered by relevance to a free-text query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			disc, err := a.loadDiscovery(cmd)
			if err != nil {
				return err
			}
			defer disc.Close()

			results, err := disc.RankInScope(args[0], scope, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			return writeResults(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", discovery.DefaultLimit, "maximum number of results")
	cmd.Flags().StringVar(&scope, "scope", "", "keep only symbols declared in this scope, e.g. AWE::MediaItem")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEntries(w io.Writer, entries []index.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", e.Label, e.Name, len(e.Targets))
	}
	return tw.Flush()
}

func writeResults(w io.Writer, results discovery.Results) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Rank, r.Entry.Label, r.Entry.Name)
	}
	return tw.Flush()
}
