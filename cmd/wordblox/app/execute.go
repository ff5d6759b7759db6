package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/wordblox/cmd/wordblox/cmd/domains"
	"github.com/agentstation/wordblox/cmd/wordblox/cmd/export"
	"github.com/agentstation/wordblox/cmd/wordblox/cmd/pull"
	"github.com/agentstation/wordblox/cmd/wordblox/cmd/serve"
	"github.com/agentstation/wordblox/cmd/wordblox/cmd/version"
	"github.com/agentstation/wordblox/cmd/wordblox/cmd/words"
)

// Execute runs the wordblox CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "wordblox",
		Short:   "Keep a local copy of SpellinBlox word lists",
		Version: a.version,
		Long: `Wordblox pulls the tag/word/details records of a SpellinBlox domain
into a local store, reconciling them with what is already there.

Pulls log into SpellinBlox with your credentials. The local store can be
browsed, edited and exported, and served over an HTTP API.`,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.loadConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "data", Title: "Data Commands:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "config file (default is $HOME/.wordblox.yaml)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.StringVarP(&a.flags.format, "format", "o", "", "output format: table, json, yaml")

	rootCmd.SetVersionTemplate("wordblox {{.Version}}\n")

	rootCmd.AddCommand(
		pull.NewCommand(a),
		serve.NewCommand(a),
		domains.NewCommand(a),
		words.NewCommand(a),
		export.NewCommand(a),
		version.NewCommand(a),
	)

	return rootCmd
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
