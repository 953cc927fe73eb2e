package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/bibmetrics/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(computeCmd)
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Fetch citations and print metrics without writing the fragment",
	Long: `Fetch works from the configured provider(s) and print the reconciled
metrics, including which provider each field came from.

Examples:
  bibmetrics compute
  bibmetrics compute --mode secondary --human`,
	RunE: runCompute,
}

func runCompute(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	ctx, cancel := signalContext()
	defer cancel()

	res, err := pipeline.Run(ctx, cfg, pipeline.Deps{})
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	resp := newMetricsResponse(cfg, res)
	if humanOutput {
		printMetricsHuman(resp)
		return nil
	}
	return outputJSON(resp)
}
