// Package serve provides the command that runs the HTTP API.
package serve

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/wordblox/cmd/application"
	"github.com/agentstation/wordblox/internal/server"
)

// NewCommand creates the serve command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the REST API server",
		Long: `Start the wordblox REST API.

Features:
  - POST /api/v1/pull to pull a domain from SpellinBlox
  - Domain registration and word browsing and editing
  - In-memory caching of listings, dropped when a pull changes a domain
  - Rate limiting, optional API key authentication and CORS
  - Graceful shutdown with connection draining

Server settings come from the server section of the configuration and
WORDBLOX_SERVER_* environment variables.`,
		Example: `  wordblox serve                 # Listen on the configured address
  wordblox serve --port 3000     # Override the port`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := server.ConfigFrom(app.Config().Server)
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			store, err := app.Store()
			if err != nil {
				return err
			}
			wb, err := app.Wordblox()
			if err != nil {
				return err
			}

			srv, err := server.New(wb, store, app.Policy(), cfg, app.Logger())
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "host address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on")

	return cmd
}
