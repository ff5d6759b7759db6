// Package words provides the command that lists stored words.
package words

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/wordblox/cmd/application"
	"github.com/agentstation/wordblox/internal/cmd/output"
)

// NewCommand creates the words command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "words",
		GroupID: "data",
		Short:   "Browse stored words",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newListCommand(app))
	return cmd
}

func newListCommand(app application.Application) *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the words stored for a domain",
		Example: `  wordblox words list --domain games.example.com
  wordblox words list --domain games.example.com -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.Resolve(app.OutputFormat())
			if err != nil {
				return err
			}
			store, err := app.Store()
			if err != nil {
				return err
			}
			if _, err := store.GetDomain(cmd.Context(), domain); err != nil {
				return err
			}
			words, err := store.ListWords(cmd.Context(), domain)
			if err != nil {
				return err
			}
			return output.Print(app.Stdout(), format, words, output.WordsTable(words))
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "domain to list (required)")
	_ = cmd.MarkFlagRequired("domain")

	return cmd
}
