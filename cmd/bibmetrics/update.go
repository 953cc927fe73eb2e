package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/bibmetrics/internal/config"
	"github.com/matsen/bibmetrics/internal/pipeline"
	"github.com/matsen/bibmetrics/internal/report"
)

var (
	updateOutput   string
	updateTemplate string
	updateDryRun   bool
)

func init() {
	updateCmd.Flags().StringVarP(&updateOutput, "output", "o", "", "Output file (default from config: "+report.DefaultPath+")")
	updateCmd.Flags().StringVar(&updateTemplate, "template", "", "text/template file replacing the built-in fragment")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Print the fragment instead of writing it")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch citations and write the metrics fragment",
	Long: `Fetch works from the configured provider(s), compute metrics, reconcile
them and write the LaTeX fragment.

A provider that fails is reported and the other provider's values are used
(degraded mode). The command fails only when every provider failed.

Examples:
  bibmetrics update
  bibmetrics update --mode combined --human
  bibmetrics update -o cv/sections/metrics.tex --template metrics.tmpl
  bibmetrics update --dry-run`,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig(func(c *config.Config) {
		if updateOutput != "" {
			c.Output.Path = updateOutput
		}
		if updateTemplate != "" {
			c.Output.Template = config.ExpandPath(updateTemplate)
		}
	})

	tmpl, err := report.LoadTemplate(cfg.Output.Template)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := pipeline.Run(ctx, cfg, pipeline.Deps{})
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if updateDryRun {
		text, err := report.String(res.Report, tmpl)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		outputHuman("%s\n", text)
		return nil
	}

	if err := report.WriteFile(cfg.Output.Path, res.Report, tmpl); err != nil {
		exitWithError(ExitError, "writing %s: %v", cfg.Output.Path, err)
	}

	resp := newMetricsResponse(cfg, res)
	resp.Path = cfg.Output.Path
	if humanOutput {
		printMetricsHuman(resp)
		return nil
	}
	return outputJSON(resp)
}
