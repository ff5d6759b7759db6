// Package domains provides commands that register and list domains.
package domains

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/wordblox/cmd/application"
	"github.com/agentstation/wordblox/internal/cmd/output"
	"github.com/agentstation/wordblox/pkg/storage"
)

// NewCommand creates the domains command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "domains",
		GroupID: "data",
		Short:   "Manage registered domains",
		Long: `Domains scope tags and words. A domain must be registered before
a pull can store anything for it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newAddCommand(app), newListCommand(app))
	return cmd
}

func newAddCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "add <url>",
		Short:   "Register a domain",
		Example: `  wordblox domains add games.example.com`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.Resolve(app.OutputFormat())
			if err != nil {
				return err
			}
			store, err := app.Store()
			if err != nil {
				return err
			}
			domain, err := store.CreateDomain(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			app.Logger().Info().Str("domain", domain.URL).Msg("Domain registered")
			return output.Print(app.Stdout(), format, domain, output.DomainsTable([]storage.Domain{*domain}))
		},
	}
}

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered domains",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.Resolve(app.OutputFormat())
			if err != nil {
				return err
			}
			store, err := app.Store()
			if err != nil {
				return err
			}
			domains, err := store.ListDomains(cmd.Context())
			if err != nil {
				return err
			}
			return output.Print(app.Stdout(), format, domains, output.DomainsTable(domains))
		},
	}
}
