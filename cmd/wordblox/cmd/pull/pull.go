// Package pull provides the command that pulls a domain from SpellinBlox
// into the local store.
package pull

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/wordblox"
	"github.com/agentstation/wordblox/cmd/application"
	"github.com/agentstation/wordblox/internal/cmd/output"
	"github.com/agentstation/wordblox/pkg/sync"
)

// PasswordEnv is read when --password is not given.
const PasswordEnv = "WORDBLOX_PASSWORD"

// Flags holds pull-specific flags.
type Flags struct {
	Domain   string
	Username string
	Password string
	Conflict string
	Priority string
	Deletion string
}

// NewCommand creates the pull command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "pull",
		GroupID: "core",
		Short:   "Pull a domain's words from SpellinBlox",
		Long: `Pull logs into SpellinBlox, fetches the tag/word/details records of a
domain and reconciles them with the local store.

The reconciliation policy defaults to the sync section of the configuration:
  --conflict  override | join        how differing details are resolved
  --priority  external | cached      which side wins a conflict
  --deletion  merge | delete         whether local-only words are removed

The password is read from $WORDBLOX_PASSWORD when --password is omitted.`,
		Example: `  wordblox pull --domain games.example.com --username alice
  wordblox pull -d games.example.com -u alice --deletion delete
  wordblox pull -d games.example.com -u alice --priority cached -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Domain, "domain", "d", "", "domain to pull (required)")
	cmd.Flags().StringVarP(&flags.Username, "username", "u", "", "SpellinBlox username (required)")
	cmd.Flags().StringVar(&flags.Password, "password", "", "SpellinBlox password (default $"+PasswordEnv+")")
	cmd.Flags().StringVar(&flags.Conflict, "conflict", "", "conflict method: override, join")
	cmd.Flags().StringVar(&flags.Priority, "priority", "", "source priority: external, cached")
	cmd.Flags().StringVar(&flags.Deletion, "deletion", "", "deletion control: merge, delete")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}
	policy, err := flags.policy(app.Policy())
	if err != nil {
		return err
	}

	password := flags.Password
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}

	wb, err := app.Wordblox()
	if err != nil {
		return err
	}

	result := wb.Pull(cmd.Context(), wordblox.PullRequest{
		Domain:   flags.Domain,
		Username: flags.Username,
		Password: password,
	}, wordblox.WithPolicy(policy))

	if !result.Synced {
		if format != output.FormatTable {
			_ = output.NewFormatter(format).Format(app.Stdout(), result)
		}
		return fmt.Errorf("pull of %s failed: %s", result.Domain, result.Error)
	}

	if format == output.FormatTable {
		table := output.SyncTable(result.Stats)
		table.Rows = append(table.Rows, []string{"Skipped", fmt.Sprint(result.Skipped)})
		return output.NewFormatter(format).Format(app.Stdout(), table)
	}
	return output.NewFormatter(format).Format(app.Stdout(), result)
}

// policy applies the policy flags to base. Unknown names are rejected.
func (f *Flags) policy(base sync.Policy) (sync.Policy, error) {
	p := base
	var err error
	if f.Conflict != "" {
		if p.ConflictMethod, err = sync.ParseConflictMethod(f.Conflict); err != nil {
			return base, err
		}
	}
	if f.Priority != "" {
		if p.SourcePriority, err = sync.ParseSourcePriority(f.Priority); err != nil {
			return base, err
		}
	}
	if f.Deletion != "" {
		if p.DeletionControl, err = sync.ParseDeletionControl(f.Deletion); err != nil {
			return base, err
		}
	}
	return p, nil
}
