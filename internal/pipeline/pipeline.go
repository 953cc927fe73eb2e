// Package pipeline runs one metrics update: select providers, fetch their
// work groups, compute metrics and reconcile them into a report.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/matsen/bibmetrics/internal/config"
	"github.com/matsen/bibmetrics/internal/metrics"
	"github.com/matsen/bibmetrics/internal/reconcile"
	"github.com/matsen/bibmetrics/internal/source"
)

// Deps are the collaborators Run uses. Zero values select defaults.
type Deps struct {
	Registry   Registry
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Registry == nil {
		d.Registry = DefaultRegistry()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// Fetched holds one provider's work groups and any per-group failures.
type Fetched struct {
	Provider string
	General  *metrics.WorkSet
	Lead     *metrics.WorkSet

	// Errs holds a *source.FetchError for each group that failed.
	Errs []error
}

// Outcome computes the provider's metrics for reconciliation. A provider
// with no usable group is reported as failed.
func (f *Fetched) Outcome() *reconcile.Outcome {
	o := &reconcile.Outcome{Provider: f.Provider}
	if f.General == nil && f.Lead == nil {
		o.Err = errors.Join(f.Errs...)
		if o.Err == nil {
			o.Err = source.ErrUnavailable
		}
		return o
	}
	if f.General != nil {
		rec := metrics.Compute(f.General)
		o.General = &rec
	}
	if f.Lead != nil {
		rec := metrics.Compute(f.Lead)
		o.Lead = &rec
	}
	return o
}

// Result is the outcome of Run.
type Result struct {
	Report  *reconcile.Report
	Fetched []*Fetched
}

// Sources builds the Sources selected by the config's mode, primary first.
func Sources(cfg *config.Config, deps Deps) ([]source.Source, error) {
	deps = deps.withDefaults()
	resolver, err := NewResolver(cfg)
	if err != nil {
		return nil, err
	}
	env := Env{HTTPClient: deps.HTTPClient, Resolver: resolver}

	var out []source.Source
	for _, name := range cfg.SelectedProviders() {
		src, err := deps.Registry.Build(name, cfg, env)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// Fetch retrieves the general group and then the lead group from src.
// Failures are recorded on the result rather than returned; partial data is
// logged as a warning.
func Fetch(ctx context.Context, src source.Source, logger *slog.Logger) *Fetched {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetched{Provider: src.Name()}
	general, lead := src.Groups()

	fetchGroup := func(group source.Group) *metrics.WorkSet {
		log := logger.With("provider", f.Provider, "group", group.Name)
		log.Debug("fetching works", "id", group.ID, "lead_only", group.LeadOnly)

		ws, err := src.Fetch(ctx, group)
		if err != nil {
			log.Warn("fetch failed", "error", err)
			f.Errs = append(f.Errs, &source.FetchError{Provider: f.Provider, Group: group, Err: err})
			return nil
		}
		if warn := source.PartialDataWarning(f.Provider, ws, group); warn != nil {
			log.Warn("partial data", "error", warn)
		}
		log.Debug("fetched works", "papers", ws.TotalPapers)
		return ws
	}

	f.General = fetchGroup(general)
	if lead != nil {
		f.Lead = fetchGroup(*lead)
	} else {
		logger.Debug("no lead-author group", "provider", f.Provider)
	}
	return f
}

// Run executes one update. The config must already be validated. Run fails
// only when every selected provider failed or when ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*Result, error) {
	deps = deps.withDefaults()

	sources, err := Sources(cfg, deps)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	outcomes := make([]*reconcile.Outcome, 2)
	groupFailures := false
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f := Fetch(ctx, src, deps.Logger)
		result.Fetched = append(result.Fetched, f)
		if len(f.Errs) > 0 {
			groupFailures = true
		}
		outcomes[roleIndex(cfg, i)] = f.Outcome()
	}

	report, err := reconcile.Reconcile(outcomes[0], outcomes[1], cfg.ReconcilePolicy())
	if err != nil {
		return nil, err
	}
	report.Degraded = report.Degraded || groupFailures
	if report.Degraded {
		deps.Logger.Warn("report is degraded; some fields come from a fallback provider or default to zero",
			"sources", report.Sources)
	}
	result.Report = report
	return result, nil
}

// roleIndex maps the i-th selected source to its reconcile role slot.
func roleIndex(cfg *config.Config, i int) int {
	if cfg.Mode() == source.ModeSecondary {
		return 1
	}
	return i
}
