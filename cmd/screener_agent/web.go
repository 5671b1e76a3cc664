package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-screener/internal/web"
)

var (
	webPort    int
	webBackend string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the upload form server",
	Long:  `Serve the screening form: add PDF CVs, describe the desired qualities, and rank candidates with the local scorer or the screening API.`,
	RunE:  runWeb,
}

func init() {
	webCmd.Flags().IntVar(&webPort, "port", 0, "Port to listen on (overrides config)")
	webCmd.Flags().StringVar(&webBackend, "backend", "", "Screening API base URL for remote mode (overrides config)")
	rootCmd.AddCommand(webCmd)
}

func runWeb(_ *cobra.Command, _ []string) error {
	port := cfg.Web.Port
	if webPort > 0 {
		port = webPort
	}
	backend := cfg.Web.BackendURL
	if webBackend != "" {
		backend = webBackend
	}

	srv, err := web.New(web.Config{
		Host:       cfg.Web.Host,
		Port:       port,
		BackendURL: backend,
		MockDelay:  cfg.Web.MockDelay,
		SessionTTL: cfg.Web.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create form server: %w", err)
	}

	return srv.Start()
}
