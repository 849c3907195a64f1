package cmd

import (
	"fmt"
	"os"

	"github.com/corvidae-labs/netwatch/internal/core/config"
	"github.com/corvidae-labs/netwatch/internal/core/logging"
	"github.com/corvidae-labs/netwatch/internal/core/version"
	"github.com/corvidae-labs/netwatch/internal/ui"
	"github.com/spf13/cobra"
)

// appFlags collects the flag-sourced overrides every subcommand reads its
// configuration through (spec.md-equivalent layered config: YAML, then
// env, then flags).
var appFlags = &config.Flags{}

// colored help-text accents, cleared when the terminal can't render them.
var (
	magenta = "\x1b[35m"
	reset   = "\x1b[0m"
)

// NewRootCommand builds the root command. With no subcommand it launches
// the interactive TUI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netwatch",
		Short: "Local network discovery tool with a modern TUI interface.",
		Long: `About
Local network discovery tool with a modern TUI interface written in Go. Discover, explore, and understand your Local Area Network in an intuitive way.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: runTUI,
	}

	config.RegisterGlobalConfigFlags(cmd, appFlags)
	return cmd
}

// AddCommands registers every subcommand on root.
func AddCommands(root *cobra.Command) {
	root.AddCommand(NewVersionCommand())
	root.AddCommand(NewDaemonCommand())
	root.AddCommand(NewScanCommand())
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadForMode(config.ModeApp, appFlags)
	if err != nil {
		return err
	}

	logger, err := logging.New(false)
	if err != nil {
		return err
	}

	app, err := ui.NewApp(cfg, logger, version.Version)
	if err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	return app.Run()
}

// Execute is the entrypoint for the CLI application.
func Execute() {
	root := NewRootCommand()
	root.Version = version.Version
	AddCommands(root)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
