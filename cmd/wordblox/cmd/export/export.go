// Package export provides the command that snapshots a domain to YAML.
package export

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/wordblox/cmd/application"
	"github.com/agentstation/wordblox/internal/export"
)

// NewCommand creates the export command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		domain string
		out    string
	)

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "data",
		Short:   "Export a domain's tags and words as YAML",
		Long: `Export writes every tag of a domain, with its words and details, as a
YAML snapshot. Without --out the snapshot is written to stdout. Files are
replaced atomically.`,
		Example: `  wordblox export --domain games.example.com
  wordblox export --domain games.example.com --out words.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}

			if out != "" {
				snap, err := export.Write(cmd.Context(), store, domain, out)
				if err != nil {
					return err
				}
				app.Logger().Info().
					Str("domain", domain).
					Str("path", out).
					Int("tags", len(snap.Tags)).
					Msg("Exported domain")
				return nil
			}

			snap, err := export.Build(cmd.Context(), store, domain, time.Now())
			if err != nil {
				return err
			}
			data, err := export.Encode(snap)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(app.Stdout(), string(data))
			return err
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "domain to export (required)")
	cmd.Flags().StringVar(&out, "out", "", "write the snapshot to this file")
	_ = cmd.MarkFlagRequired("domain")

	return cmd
}
