package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/matsen/bibmetrics/internal/config"
	"github.com/matsen/bibmetrics/internal/metrics"
	"github.com/matsen/bibmetrics/internal/reconcile"
	"github.com/matsen/bibmetrics/internal/source"
	"github.com/matsen/bibmetrics/internal/storage"
)

// fakeSource serves canned WorkSets per group name.
type fakeSource struct {
	name   string
	groups map[string][]int
	errs   map[string]error
	noLead bool
	calls  []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Groups() (source.Group, *source.Group) {
	general := source.Group{Name: metrics.GroupGeneral, ID: "g"}
	if f.noLead {
		return general, nil
	}
	return general, &source.Group{Name: metrics.GroupLead, ID: "l"}
}

func (f *fakeSource) Fetch(_ context.Context, g source.Group) (*metrics.WorkSet, error) {
	f.calls = append(f.calls, g.Name)
	if err := f.errs[g.Name]; err != nil {
		return nil, err
	}
	var works []metrics.Work
	for _, c := range f.groups[g.Name] {
		works = append(works, metrics.Work{Citations: c, Partial: c == 0})
	}
	return metrics.NewWorkSet(g.Name, works), nil
}

func registryOf(sources ...*fakeSource) Registry {
	r := Registry{}
	for _, s := range sources {
		s := s
		r[s.name] = func(*config.Config, Env) (source.Source, error) { return s, nil }
	}
	return r
}

func quietDeps(r Registry) Deps {
	return Deps{Registry: r, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func testConfig(mode string) *config.Config {
	cfg := config.Default()
	cfg.SourceMode = mode
	cfg.Primary = "alpha"
	cfg.Secondary = "beta"
	return cfg
}

func TestRun_PrimaryOnly(t *testing.T) {
	alpha := &fakeSource{name: "alpha", groups: map[string][]int{
		metrics.GroupGeneral: {10, 10, 10, 0},
		metrics.GroupLead:    {10},
	}}
	beta := &fakeSource{name: "beta"}

	res, err := Run(context.Background(), testConfig("primary"), quietDeps(registryOf(alpha, beta)))
	if err != nil {
		t.Fatal(err)
	}
	got := res.Report
	if got.TotalPapers != 4 || got.TotalCitations != 30 || got.HIndex != 3 || got.LeadPapers != 1 {
		t.Errorf("report = %+v", got)
	}
	if got.Degraded {
		t.Error("a clean single-provider run is not degraded")
	}
	if !slices.Equal(alpha.calls, []string{metrics.GroupGeneral, metrics.GroupLead}) {
		t.Errorf("fetch order = %v, want general then lead", alpha.calls)
	}
	if len(beta.calls) != 0 {
		t.Error("secondary must not be consulted in primary mode")
	}
}

func TestRun_SecondaryOnly(t *testing.T) {
	alpha := &fakeSource{name: "alpha"}
	beta := &fakeSource{name: "beta", groups: map[string][]int{metrics.GroupGeneral: {3, 2, 1}}, noLead: true}

	res, err := Run(context.Background(), testConfig("secondary"), quietDeps(registryOf(alpha, beta)))
	if err != nil {
		t.Fatal(err)
	}
	if res.Report.TotalPapers != 3 || res.Report.HIndex != 2 || res.Report.LeadPapers != 0 {
		t.Errorf("report = %+v", res.Report)
	}
	if len(alpha.calls) != 0 {
		t.Error("primary must not be consulted in secondary mode")
	}
}

func TestRun_CombinedDegraded(t *testing.T) {
	alpha := &fakeSource{name: "alpha", errs: map[string]error{
		metrics.GroupGeneral: source.ErrUnavailable,
		metrics.GroupLead:    source.ErrUnavailable,
	}}
	beta := &fakeSource{name: "beta", groups: map[string][]int{
		metrics.GroupGeneral: {20, 15, 9, 2},
		metrics.GroupLead:    {20},
	}}

	res, err := Run(context.Background(), testConfig("combined"), quietDeps(registryOf(alpha, beta)))
	if err != nil {
		t.Fatalf("degraded run must succeed: %v", err)
	}
	if !res.Report.Degraded {
		t.Error("expected degraded report")
	}
	if res.Report.TotalCitations != 46 || res.Report.LeadCitations != 20 {
		t.Errorf("report = %+v, want secondary values", res.Report)
	}
	if len(res.Fetched) != 2 || len(res.Fetched[0].Errs) != 2 {
		t.Fatalf("fetched = %+v", res.Fetched)
	}
	var fe *source.FetchError
	if !errors.As(res.Fetched[0].Errs[0], &fe) || fe.Provider != "alpha" {
		t.Errorf("errs[0] = %v, want FetchError from alpha", res.Fetched[0].Errs[0])
	}
}

func TestRun_LeadGroupFailureIsDegraded(t *testing.T) {
	alpha := &fakeSource{
		name:   "alpha",
		groups: map[string][]int{metrics.GroupGeneral: {5}},
		errs:   map[string]error{metrics.GroupLead: source.ErrSource},
	}

	res, err := Run(context.Background(), testConfig("primary"), quietDeps(registryOf(alpha)))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Report.Degraded || res.Report.TotalPapers != 1 || res.Report.LeadPapers != 0 {
		t.Errorf("report = %+v", res.Report)
	}
}

func TestRun_AllFail(t *testing.T) {
	fail := map[string]error{metrics.GroupGeneral: source.ErrSource, metrics.GroupLead: source.ErrSource}
	alpha := &fakeSource{name: "alpha", errs: fail}
	beta := &fakeSource{name: "beta", errs: fail}

	_, err := Run(context.Background(), testConfig("combined"), quietDeps(registryOf(alpha, beta)))
	if !errors.Is(err, reconcile.ErrAllSourcesFailed) || !errors.Is(err, source.ErrSource) {
		t.Errorf("error = %v, want ErrAllSourcesFailed wrapping ErrSource", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	alpha := &fakeSource{name: "alpha"}
	if _, err := Run(ctx, testConfig("primary"), quietDeps(registryOf(alpha))); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRun_UnknownProvider(t *testing.T) {
	_, err := Run(context.Background(), testConfig("primary"), quietDeps(Registry{}))
	if !errors.Is(err, config.ErrConfiguration) {
		t.Errorf("error = %v, want ErrConfiguration", err)
	}
}

func TestRegistry_BuildUnknownListsProviders(t *testing.T) {
	r := registryOf(&fakeSource{name: "beta"}, &fakeSource{name: "alpha"})
	_, err := r.Build("gamma", config.Default(), Env{})
	if !errors.Is(err, config.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
	if !strings.Contains(err.Error(), "registered: alpha, beta") {
		t.Errorf("error = %q, want the registered providers listed", err)
	}
}

func TestRun_FileProvider(t *testing.T) {
	dir := t.TempDir()
	general := filepath.Join(dir, "general.jsonl")
	if err := storage.WriteWorks(general, []metrics.Work{
		{Title: "A", Authors: []string{"Petigura, E. A."}, Citations: 100},
		{Title: "B", Authors: []string{"Howard, A.", "Petigura, E."}, Citations: 0},
		{Title: "C", Authors: []string{"Petigura, Erik"}, Citations: 12},
	}, false); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Primary = config.ProviderFile
	cfg.File.General = general
	cfg.LeadAuthor = "Petigura, E."
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	res, err := Run(context.Background(), cfg, quietDeps(nil))
	if err != nil {
		t.Fatal(err)
	}
	want := reconcile.Report{
		LeadPapers: 2, LeadCitations: 112,
		TotalPapers: 3, TotalCitations: 112,
		HIndex: 2, GIndex: 3, I10Index: 2,
	}
	got := *res.Report
	got.Sources = nil
	if !reflect.DeepEqual(got, want) {
		t.Errorf("report = %+v, want %+v", got, want)
	}
}

func TestDefaultRegistry_CoversKnownProviders(t *testing.T) {
	if got := DefaultRegistry().Names(); !slices.Equal(got, slices.Sorted(slices.Values(config.KnownProviders))) {
		t.Errorf("registry = %v, want %v", got, config.KnownProviders)
	}
}

func TestSources_BuildsEveryProvider(t *testing.T) {
	cfg := config.Default()
	cfg.LeadAuthor = "Erik Petigura"
	for _, name := range config.KnownProviders {
		cfg.SourceMode = "primary"
		cfg.Primary = name
		srcs, err := Sources(cfg, Deps{})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(srcs) != 1 || srcs[0].Name() != name {
			t.Errorf("%s: built %v", name, srcs)
		}
	}
}

func TestNewResolver(t *testing.T) {
	cfg := config.Default()
	if r, err := NewResolver(cfg); err != nil || r != nil {
		t.Errorf("empty lead_author: resolver = %v, err = %v", r, err)
	}
	cfg.LeadAuthor = "Petigura, E."
	r, err := NewResolver(cfg)
	if err != nil || r == nil {
		t.Fatalf("resolver = %v, err = %v", r, err)
	}
	if !r.IsLead([]string{"Petigura, E. A.", "Howard, A."}) {
		t.Error("expected first-author match")
	}
}
