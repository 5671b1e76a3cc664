// Package main provides the entry point for the CV screener toolkit.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-screener/internal/config"
	"github.com/jonathan/cv-screener/internal/logger"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "screener_agent",
	Short: "CV screening toolkit",
	Long:  "CV Screener ranks candidate CVs against free-text desired qualities, as a one-shot command, an upload form server, or a screening REST API.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		return logger.Init(logger.Options{
			Level:      cfg.Logging.Level,
			Pretty:     cfg.Logging.Pretty,
			File:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (default screener.yaml in the working directory)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
