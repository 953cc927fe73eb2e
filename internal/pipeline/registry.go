package pipeline

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/matsen/bibmetrics/internal/ads"
	"github.com/matsen/bibmetrics/internal/author"
	"github.com/matsen/bibmetrics/internal/config"
	"github.com/matsen/bibmetrics/internal/s2"
	"github.com/matsen/bibmetrics/internal/scholar"
	"github.com/matsen/bibmetrics/internal/source"
	"github.com/matsen/bibmetrics/internal/storage"
)

// Env carries what a Factory may need beyond the config.
type Env struct {
	// HTTPClient overrides each provider's default client when set.
	HTTPClient *http.Client
	// Resolver decides lead authorship; nil when no lead_author is configured.
	Resolver author.PositionResolver
}

// Factory builds a configured Source.
type Factory func(cfg *config.Config, env Env) (source.Source, error)

// Registry maps provider names to factories.
type Registry map[string]Factory

// Names returns the registered provider names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the named provider's Source.
func (r Registry) Build(name string, cfg *config.Config, env Env) (source.Source, error) {
	f, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: no provider named %q (registered: %s)",
			config.ErrConfiguration, name, strings.Join(r.Names(), ", "))
	}
	return f(cfg, env)
}

// DefaultRegistry returns the built-in providers.
func DefaultRegistry() Registry {
	return Registry{
		config.ProviderADS:     newADSSource,
		config.ProviderScholar: newScholarSource,
		config.ProviderS2:      newS2Source,
		config.ProviderFile:    newFileSource,
	}
}

func newADSSource(cfg *config.Config, env Env) (source.Source, error) {
	opts := []ads.ClientOption{
		ads.WithToken(cfg.ADS.Token),
		ads.WithBaseURL(cfg.ADS.BaseURL),
		ads.WithRows(cfg.ADS.Rows),
	}
	if env.HTTPClient != nil {
		opts = append(opts, ads.WithHTTPClient(env.HTTPClient))
	}
	client := ads.NewClient(opts...)
	return ads.NewSource(client, cfg.ADS.GeneralLibrary, cfg.ADS.LeadLibrary, env.Resolver), nil
}

func newScholarSource(cfg *config.Config, env Env) (source.Source, error) {
	opts := []scholar.ClientOption{
		scholar.WithBaseURL(cfg.Scholar.BaseURL),
		scholar.WithMaxPages(cfg.Scholar.MaxPages),
		scholar.WithRateLimit(cfg.Scholar.RateLimit),
	}
	if env.HTTPClient != nil {
		opts = append(opts, scholar.WithHTTPClient(env.HTTPClient))
	}
	client := scholar.NewClient(opts...)
	return scholar.NewSource(client, cfg.Scholar.User, env.Resolver), nil
}

func newS2Source(cfg *config.Config, env Env) (source.Source, error) {
	opts := []s2.ClientOption{
		s2.WithBaseURL(cfg.S2.BaseURL),
		s2.WithRateLimit(cfg.S2.RateLimit),
	}
	if cfg.S2.APIKey != "" {
		opts = append(opts, s2.WithAPIKey(cfg.S2.APIKey))
	}
	if env.HTTPClient != nil {
		opts = append(opts, s2.WithHTTPClient(env.HTTPClient))
	}
	return s2.NewSource(s2.NewClient(opts...), cfg.S2.AuthorID, env.Resolver), nil
}

func newFileSource(cfg *config.Config, env Env) (source.Source, error) {
	return storage.NewSource(cfg.File.General, cfg.File.Lead, env.Resolver), nil
}

// NewResolver builds the lead-author resolver from lead_author, or returns
// nil when none is configured.
func NewResolver(cfg *config.Config) (author.PositionResolver, error) {
	if cfg.LeadAuthor == "" {
		return nil, nil
	}
	r, err := author.NewNameResolver(cfg.LeadAuthor)
	if err != nil {
		return nil, fmt.Errorf("%w: lead_author: %v", config.ErrConfiguration, err)
	}
	return r, nil
}
