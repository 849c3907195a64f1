package cmd

import (
	"os"

	"github.com/corvidae-labs/netwatch/internal/core/version"
	"github.com/spf13/cobra"
)

// NewVersionCommand prints build version information.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			version.Fprint(os.Stdout)
			return nil
		},
	}
}
