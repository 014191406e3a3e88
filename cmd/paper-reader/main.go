// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-reader CLI. It summarizes
// arXiv papers with an LLM, either from the command line or over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-reader/internal/logging"
	"github.com/pdiddy/paper-reader/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// logger writes operational logs to stderr.
	logger = slog.New(slog.DiscardHandler)
)

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the paper-reader CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-reader",
	Short: "Summarize arXiv papers with an LLM",
	Long: `paper-reader downloads arXiv papers, extracts their text, and streams an
LLM-generated summary of each one. Papers are processed in order; a paper that
cannot be fetched or read gets an error section and the batch moves on.

Use "read" for the command line, "serve" for the HTTP interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(viper.GetString("log.level"), viper.GetString("log.format"), os.Stderr)

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", "keys", secrets.Names(s))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-reader.yaml or ~/.config/paper-reader/paper-reader.yaml)")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: openai or ali")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-reader")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-reader"))
		}
	}

	viper.SetEnvPrefix("PAPER_READER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
