// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-reader/internal/history"
	"github.com/pdiddy/paper-reader/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the summary history",
	Long: `History reads the database written when history.enabled is set. Every
summarized item is recorded with its batch id, status and summary.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded items, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, q, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		items, err := store.List(cmd.Context(), q)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STARTED\tBATCH\t#\tSTATUS\tREFERENCE\tTITLE")
		for _, it := range items {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
				it.StartedAt.Local().Format("2006-01-02 15:04"), it.BatchID, it.Index,
				it.Status, it.Reference, it.Title)
		}
		return tw.Flush()
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded items as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatStr, _ := cmd.Flags().GetString("format")
		format, err := history.ParseFormat(formatStr)
		if err != nil {
			return err
		}

		store, q, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		if !cmd.Flags().Changed("limit") {
			q.Limit = 0
		}

		w := cmd.OutOrStdout()
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		return store.Export(cmd.Context(), q, format, w)
	},
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("batch", "", "filter by batch id")
		c.Flags().String("reference", "", "filter by reference URL")
		c.Flags().String("status", "", "filter by status: succeeded, failed, interrupted")
		c.Flags().Int("limit", 50, "maximum number of items (negative for all)")
	}
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")

	historyCmd.AddCommand(historyListCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory(cmd *cobra.Command) (*history.Store, history.Query, error) {
	var q history.Query
	q.BatchID, _ = cmd.Flags().GetString("batch")
	q.Reference, _ = cmd.Flags().GetString("reference")
	status, _ := cmd.Flags().GetString("status")
	q.Status = types.ItemStatus(status)
	q.Limit, _ = cmd.Flags().GetInt("limit")

	path := viper.GetString("history.path")
	if _, err := os.Stat(path); err != nil {
		return nil, q, fmt.Errorf("no history at %s (enable history.enabled to record batches): %w", path, err)
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, q, err
	}
	return store, q, nil
}
