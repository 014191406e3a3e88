// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-reader/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the summarizer over HTTP",
	Long: `Serve exposes the summarizer over HTTP until interrupted:

  POST /read_papers/      JSON {"urls": [...], "prompt": "..."}, streamed text/plain reply
  POST /read_papers/form  form fields urls (one per line) and prompt, JSON reply
  GET  /health`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		return server.New(a.pipeline, a.cfg.Server, logger).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
