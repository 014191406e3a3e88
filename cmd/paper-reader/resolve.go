// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-reader/internal/fetch"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [urls...]",
	Short: "Print the PDF URL each reference resolves to",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("provide one or more arXiv URLs")
		}
		withMeta, _ := cmd.Flags().GetBool("metadata")

		var fetcher *fetch.Fetcher
		if withMeta {
			cfg, err := loadConfig(viper.GetViper())
			if err != nil {
				return err
			}
			fetcher = fetch.New(&http.Client{Timeout: cfg.Fetch.Timeout}, cfg.Fetch, logger)
		}

		w := cmd.OutOrStdout()
		failed := 0
		for _, ref := range args {
			pdfURL, err := fetch.ResolvePDFURL(ref)
			if err != nil {
				fmt.Fprintf(w, "failed:  %s (%v)\n", ref, err)
				failed++
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", ref, pdfURL)
			if fetcher == nil {
				continue
			}
			paper, err := fetcher.Metadata(cmd.Context(), ref)
			if err != nil {
				fmt.Fprintf(w, "  metadata: %v\n", err)
				continue
			}
			fmt.Fprintf(w, "  title:   %s\n", paper.Title)
			if len(paper.Authors) > 0 {
				fmt.Fprintf(w, "  authors: %v\n", paper.Authors)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d reference(s) could not be resolved", failed)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().Bool("metadata", false, "also fetch title and authors from the abstract page")
	rootCmd.AddCommand(resolveCmd)
}
