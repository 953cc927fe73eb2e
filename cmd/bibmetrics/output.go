package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/matsen/bibmetrics/internal/config"
	"github.com/matsen/bibmetrics/internal/pipeline"
	"github.com/matsen/bibmetrics/internal/reconcile"
	"github.com/matsen/bibmetrics/internal/source"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitCodeFor maps an error from the pipeline to an exit code.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, config.ErrConfiguration):
		return ExitConfigError
	case errors.Is(err, reconcile.ErrAllSourcesFailed),
		errors.Is(err, source.ErrSource),
		source.IsUnavailable(err):
		return ExitSourceError
	default:
		return ExitError
	}
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProviderSummary describes what one provider returned.
type ProviderSummary struct {
	Provider     string   `json:"provider"`
	GeneralWorks *int     `json:"general_works,omitempty"`
	LeadWorks    *int     `json:"lead_works,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// MetricsResponse is the JSON output of update and compute.
type MetricsResponse struct {
	Status    string            `json:"status"`
	Path      string            `json:"path,omitempty"`
	Mode      string            `json:"mode"`
	Metrics   *reconcile.Report `json:"metrics"`
	Providers []ProviderSummary `json:"providers"`
}

func newMetricsResponse(cfg *config.Config, res *pipeline.Result) MetricsResponse {
	resp := MetricsResponse{
		Status:  "ok",
		Mode:    string(cfg.Mode()),
		Metrics: res.Report,
	}
	if res.Report.Degraded {
		resp.Status = "degraded"
	}
	for _, f := range res.Fetched {
		s := ProviderSummary{Provider: f.Provider}
		if f.General != nil {
			n := f.General.TotalPapers
			s.GeneralWorks = &n
		}
		if f.Lead != nil {
			n := f.Lead.TotalPapers
			s.LeadWorks = &n
		}
		for _, err := range f.Errs {
			s.Errors = append(s.Errors, err.Error())
		}
		resp.Providers = append(resp.Providers, s)
	}
	return resp
}

// printMetricsHuman prints a report as a table with the provider behind
// each field.
func printMetricsHuman(resp MetricsResponse) {
	outputHuman("%s", metricsTable(resp.Metrics))

	for _, p := range resp.Providers {
		for _, e := range p.Errors {
			color.New(color.FgYellow).Fprintf(os.Stdout, "warning: %s\n", e)
		}
	}
	if resp.Metrics.Degraded {
		color.New(color.FgYellow).Fprintln(os.Stdout, "degraded: a provider failed, its fields fell back to the other provider or zero")
	}
	if resp.Path != "" {
		color.New(color.FgGreen).Fprintf(os.Stdout, "wrote %s\n", resp.Path)
	}
}

// metricsTable renders the report fields with thousands separators.
func metricsTable(r *reconcile.Report) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.AppendHeader(table.Row{"Metric", "Value", "Source"})

	count := func(n int) string { return humanize.Comma(int64(n)) }
	tbl.AppendRows([]table.Row{
		{"Lead-author papers", count(r.LeadPapers), r.Sources["lead"]},
		{"Lead-author citations", count(r.LeadCitations), r.Sources["lead"]},
		{"Total papers", count(r.TotalPapers), r.Sources["total_papers"]},
		{"Total citations", count(r.TotalCitations), r.Sources["total_citations"]},
		{"h-index", r.HIndex, r.Sources["indices"]},
		{"g-index", r.GIndex, r.Sources["indices"]},
		{"i10-index", r.I10Index, r.Sources["indices"]},
	})
	if r.TotalReads > 0 || r.TotalDownloads > 0 {
		tbl.AppendRows([]table.Row{
			{"Reads", count(r.TotalReads), r.Sources["total_citations"]},
			{"Downloads", count(r.TotalDownloads), r.Sources["total_citations"]},
		})
	}
	return tbl.Render() + "\n"
}
