package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bibmetrics/internal/config"
	"github.com/matsen/bibmetrics/internal/metrics"
	"github.com/matsen/bibmetrics/internal/pipeline"
	"github.com/matsen/bibmetrics/internal/storage"
)

var (
	worksProvider   string
	worksOutput     string
	worksLeadOutput string
)

func init() {
	worksCmd.Flags().StringVarP(&worksProvider, "provider", "p", "", "Provider to export (default: the configured primary)")
	worksCmd.Flags().StringVarP(&worksOutput, "output", "o", "", "General works file (default: works-<provider>.jsonl)")
	worksCmd.Flags().StringVar(&worksLeadOutput, "lead-output", "", "Lead-author works file (default: works-<provider>-lead.jsonl)")
	rootCmd.AddCommand(worksCmd)
}

var worksCmd = &cobra.Command{
	Use:   "works",
	Short: "Export a provider's works to JSONL",
	Long: `Fetch the general and lead-author works from one provider and write them
as JSONL, one work per line. The files can be used by the 'file' provider
(file.general, file.lead) to compute metrics offline.

Examples:
  bibmetrics works
  bibmetrics works --provider scholar -o scholar.jsonl --lead-output scholar-lead.jsonl`,
	Args: cobra.NoArgs,
	RunE: runWorks,
}

// WorksResponse is the JSON output of works.
type WorksResponse struct {
	Provider string      `json:"provider"`
	Files    []WorksFile `json:"files"`
	Errors   []string    `json:"errors,omitempty"`
}

// WorksFile describes one written works file.
type WorksFile struct {
	Group   string `json:"group"`
	Path    string `json:"path"`
	Works   int    `json:"works"`
	Partial int    `json:"partial,omitempty"`
}

func runWorks(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig(func(c *config.Config) {
		if worksProvider != "" {
			c.Primary = worksProvider
		}
		c.SourceMode = "primary"
	})
	provider := cfg.Primary

	resolver, err := pipeline.NewResolver(cfg)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	src, err := pipeline.DefaultRegistry().Build(provider, cfg, pipeline.Env{Resolver: resolver})
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()
	fetched := pipeline.Fetch(ctx, src, nil)
	if fetched.General == nil && fetched.Lead == nil {
		exitWithError(ExitSourceError, "%v", fetched.Outcome().Err)
	}

	generalPath := worksOutput
	if generalPath == "" {
		generalPath = fmt.Sprintf("works-%s.jsonl", provider)
	}
	leadPath := worksLeadOutput
	if leadPath == "" {
		leadPath = fmt.Sprintf("works-%s-lead.jsonl", provider)
	}

	resp := WorksResponse{Provider: provider}
	write := func(ws *metrics.WorkSet, path string) {
		if ws == nil {
			return
		}
		if err := storage.WriteWorks(path, ws.Works, ws.HasUsage); err != nil {
			exitWithError(ExitError, "writing %s: %v", path, err)
		}
		resp.Files = append(resp.Files, WorksFile{
			Group:   ws.Group,
			Path:    path,
			Works:   ws.TotalPapers,
			Partial: ws.PartialCount(),
		})
	}
	write(fetched.General, generalPath)
	write(fetched.Lead, leadPath)
	for _, err := range fetched.Errs {
		resp.Errors = append(resp.Errors, err.Error())
	}

	if humanOutput {
		for _, f := range resp.Files {
			outputHuman("Wrote %d %s works to %s\n", f.Works, f.Group, f.Path)
		}
		for _, e := range resp.Errors {
			outputHuman("Warning: %s\n", e)
		}
		return nil
	}
	return outputJSON(resp)
}
