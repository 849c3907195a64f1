package cmd

import (
	"context"
	"os"

	"github.com/corvidae-labs/netwatch/internal/core"
	"github.com/corvidae-labs/netwatch/internal/core/config"
	"github.com/corvidae-labs/netwatch/internal/core/output"
	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/spf13/cobra"
)

func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a single discovery scan and output results to the console",
		Long: `Run exactly one discovery scan.

By default, all scanners (mDNS, SSDP, ARP, NDP, passive, NetBIOS) and the sweeper are enabled.
Set a scanner's flag to false (e.g. --mdns=false) to disable it.` + magenta + `

Examples:` + reset + `
  netwatch scan
  netwatch scan --sweeper=false
  netwatch scan --mdns=false --ssdp=false
  netwatch scan --timeout 15s
`,
		RunE: runScan,
	}

	cmd.Flags().Bool("json", false, "Output results in JSON format")
	cmd.Flags().Bool("pretty", false, "Pretty print output")

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.LoadForMode(config.ModeCLI, appFlags)
	if err != nil {
		return err
	}

	eng, err := core.BuildEngine(cfg, discovery.NoOpLogger{})
	if err != nil {
		return err
	}

	spinner := output.NewSpinner(os.Stdout, "Scanning network...", cfg.ScanTimeout)
	spinner.Start()

	results, scanErr := eng.Scan(ctx)

	spinner.Stop()

	if scanErr != nil {
		return scanErr
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	pretty, _ := cmd.Flags().GetBool("pretty")

	format := output.FormatTable
	var opts []output.Option
	if asJSON {
		format = output.FormatJSON
	}
	if pretty {
		opts = append(opts, output.WithPretty())
	}

	return output.PrintDevices(os.Stdout, results, format, opts...)
}
