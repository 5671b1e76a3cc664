package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-screener/internal/llm"
	"github.com/jonathan/cv-screener/internal/screening"
	"github.com/jonathan/cv-screener/internal/server"
)

var (
	servePort int
	serveMock bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the screening REST API",
	Long:  `Start the HTTP service that accepts multipart CV uploads on POST /api/screen and returns a ranked candidate array.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveMock, "mock", false, "Force the demo scorer even when AI is configured")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	var client llm.Client
	if cfg.AI.Enabled && !serveMock {
		var err error
		client, err = llm.NewClient(cmd.Context(), cfg.ModelConfig(), cfg.AI.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create model client: %w", err)
		}
		defer client.Close()
		log.Info().Str("provider", cfg.AI.Provider).Msg("model scoring enabled")
	} else {
		log.Info().Msg("model scoring disabled, using demo scorer")
	}

	screener := screening.New(screening.Options{
		Client:      client,
		MaxCVChars:  cfg.Screening.MaxCVChars,
		Concurrency: cfg.Screening.Concurrency,
	})

	port := cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	srv, err := server.New(server.Config{
		Host:           cfg.Server.Host,
		Port:           port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadMB:    cfg.Server.MaxUploadMB,
		RateEnabled:    cfg.Server.RateLimit.Enabled,
		RatePerMinute:  cfg.Server.RateLimit.PerMinute,
		RateBurst:      cfg.Server.RateLimit.Burst,
	}, screener)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
