package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lingo/internal/api"
	"github.com/abhisek/lingo/internal/app"
	"github.com/abhisek/lingo/internal/config"
	"github.com/abhisek/lingo/internal/session"
)

// runApp builds the client stack from configuration and launches the TUI.
func runApp(cmd *cobra.Command) error {
	client := buildClient(cmd)
	flow := session.NewFlow(client, session.NewStore())

	return app.Run(app.Options{Flow: flow})
}

// buildClient resolves the API configuration. The --api-url flag wins over
// LINGO_API_URL, which wins over the built-in default.
func buildClient(cmd *cobra.Command) *api.Client {
	cfg := config.Load()
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		cfg.BaseURL = u
	}

	opts := []api.ClientOption{
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.Timeout),
	}
	if cfg.Token != "" {
		opts = append(opts, api.WithToken(cfg.Token))
	}
	return api.NewClient(opts...)
}
