// Package config loads and validates bibmetrics configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/matsen/bibmetrics/internal/reconcile"
	"github.com/matsen/bibmetrics/internal/source"
)

// Provider names accepted for primary and secondary.
const (
	ProviderADS     = "ads"
	ProviderScholar = "scholar"
	ProviderS2      = "s2"
	ProviderFile    = "file"
)

// KnownProviders lists every provider name in display order.
var KnownProviders = []string{ProviderADS, ProviderScholar, ProviderS2, ProviderFile}

// ErrConfiguration is returned for any invalid or incomplete configuration.
var ErrConfiguration = errors.New("configuration error")

// Config is the full runtime configuration.
type Config struct {
	SourceMode string        `koanf:"source_mode" yaml:"source_mode" json:"source_mode"`
	Primary    string        `koanf:"primary" yaml:"primary" json:"primary"`
	Secondary  string        `koanf:"secondary" yaml:"secondary" json:"secondary"`
	Policy     PolicyConfig  `koanf:"policy" yaml:"policy" json:"policy"`
	LeadAuthor string        `koanf:"lead_author" yaml:"lead_author" json:"lead_author"`
	ADS        ADSConfig     `koanf:"ads" yaml:"ads" json:"ads"`
	Scholar    ScholarConfig `koanf:"scholar" yaml:"scholar" json:"scholar"`
	S2         S2Config      `koanf:"s2" yaml:"s2" json:"s2"`
	File       FileConfig    `koanf:"file" yaml:"file" json:"file"`
	Output     OutputConfig  `koanf:"output" yaml:"output" json:"output"`
	LogLevel   string        `koanf:"log_level" yaml:"log_level" json:"log_level"`
}

// PolicyConfig names the preferred role for each report field group.
type PolicyConfig struct {
	Papers    string `koanf:"papers" yaml:"papers" json:"papers"`
	Citations string `koanf:"citations" yaml:"citations" json:"citations"`
	Indices   string `koanf:"indices" yaml:"indices" json:"indices"`
	Lead      string `koanf:"lead" yaml:"lead" json:"lead"`
}

// ADSConfig configures the ADS library source.
type ADSConfig struct {
	Token          string `koanf:"token" yaml:"token" json:"token"`
	BaseURL        string `koanf:"base_url" yaml:"base_url" json:"base_url"`
	Rows           int    `koanf:"rows" yaml:"rows" json:"rows"`
	GeneralLibrary string `koanf:"general_library" yaml:"general_library" json:"general_library"`
	LeadLibrary    string `koanf:"lead_library" yaml:"lead_library" json:"lead_library"`
}

// ScholarConfig configures the Scholar profile source.
type ScholarConfig struct {
	User     string `koanf:"user" yaml:"user" json:"user"`
	BaseURL  string `koanf:"base_url" yaml:"base_url" json:"base_url"`
	MaxPages int    `koanf:"max_pages" yaml:"max_pages" json:"max_pages"`

	// RateLimit is in requests per second.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// S2Config configures the Semantic Scholar source.
type S2Config struct {
	APIKey   string `koanf:"api_key" yaml:"api_key" json:"api_key"`
	AuthorID string `koanf:"author_id" yaml:"author_id" json:"author_id"`
	BaseURL  string `koanf:"base_url" yaml:"base_url" json:"base_url"`

	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// FileConfig configures the offline works-file source.
type FileConfig struct {
	General string `koanf:"general" yaml:"general" json:"general"`
	Lead    string `koanf:"lead" yaml:"lead" json:"lead"`
}

// OutputConfig configures the rendered fragment.
type OutputConfig struct {
	Path     string `koanf:"path" yaml:"path" json:"path"`
	Template string `koanf:"template" yaml:"template" json:"template"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SourceMode: string(source.ModePrimary),
		Primary:    ProviderADS,
		Secondary:  ProviderScholar,
		Policy: PolicyConfig{
			Papers:    string(reconcile.Primary),
			Citations: string(reconcile.Primary),
			Indices:   string(reconcile.Primary),
			Lead:      string(reconcile.Primary),
		},
		ADS: ADSConfig{
			BaseURL:        "https://api.adsabs.harvard.edu/v1",
			Rows:           2000,
			GeneralLibrary: "jtVFaJEgTa-f_8rDodxeJg",
			LeadLibrary:    "ZGzLvEG9RgWI9xHL25CByw",
		},
		Scholar: ScholarConfig{
			BaseURL:  "https://scholar.google.com",
			MaxPages:  10,
			RateLimit: 0.5,
		},
		S2: S2Config{
			BaseURL:   "https://api.semanticscholar.org/graph/v1",
			RateLimit: 1,
		},
		Output: OutputConfig{
			Path: "sections/publication-metrics.tex",
		},
		LogLevel: "info",
	}
}

// Mode returns the parsed source mode. Call Validate first.
func (c *Config) Mode() source.Mode {
	m, _ := source.ParseMode(c.SourceMode)
	return m
}

// ReconcilePolicy returns the parsed field policy. Call Validate first.
func (c *Config) ReconcilePolicy() reconcile.Policy {
	role := func(s string) reconcile.Role {
		r, err := reconcile.ParseRole(s)
		if err != nil {
			return reconcile.Primary
		}
		return r
	}
	return reconcile.Policy{
		Papers:    role(c.Policy.Papers),
		Citations: role(c.Policy.Citations),
		Indices:   role(c.Policy.Indices),
		Lead:      role(c.Policy.Lead),
	}
}

// SelectedProviders returns the provider names the source mode consults,
// primary first.
func (c *Config) SelectedProviders() []string {
	var out []string
	mode := c.Mode()
	if mode.UsesPrimary() {
		out = append(out, c.Primary)
	}
	if mode.UsesSecondary() {
		out = append(out, c.Secondary)
	}
	return out
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Validate checks the whole configuration once, before any network call.
// All problems are reported together, wrapped in ErrConfiguration.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	mode, err := source.ParseMode(c.SourceMode)
	if err != nil {
		add("source_mode: %v", err)
	} else {
		if mode.UsesPrimary() && !slices.Contains(KnownProviders, c.Primary) {
			add("primary: unknown provider %q (valid: %s)", c.Primary, strings.Join(KnownProviders, ", "))
		}
		if mode.UsesSecondary() && !slices.Contains(KnownProviders, c.Secondary) {
			add("secondary: unknown provider %q (valid: %s)", c.Secondary, strings.Join(KnownProviders, ", "))
		}
		if mode == source.ModeCombined && c.Primary == c.Secondary {
			add("combined mode needs two different providers, both are %q", c.Primary)
		}
	}
	for key, val := range map[string]string{
		"policy.papers":    c.Policy.Papers,
		"policy.citations": c.Policy.Citations,
		"policy.indices":   c.Policy.Indices,
		"policy.lead":      c.Policy.Lead,
	} {
		if _, err := reconcile.ParseRole(val); err != nil {
			add("%s: %v", key, err)
		}
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		add("log_level: invalid level %q", c.LogLevel)
	}
	if c.Output.Path == "" {
		add("output.path must not be empty")
	}

	if len(problems) == 0 {
		for _, name := range c.SelectedProviders() {
			problems = append(problems, c.providerProblems(name)...)
		}
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// providerProblems reports missing settings for one selected provider.
func (c *Config) providerProblems(name string) []string {
	var problems []string
	switch name {
	case ProviderADS:
		if c.ADS.Token == "" {
			problems = append(problems, "ads.token is required (or set ADS_API_KEY)")
		}
		if c.ADS.GeneralLibrary == "" {
			problems = append(problems, "ads.general_library is required")
		}
		if c.ADS.Rows <= 0 {
			problems = append(problems, "ads.rows must be positive")
		}
	case ProviderScholar:
		if c.Scholar.User == "" {
			problems = append(problems, "scholar.user is required")
		}
		if c.Scholar.MaxPages <= 0 {
			problems = append(problems, "scholar.max_pages must be positive")
		}
		if c.Scholar.RateLimit <= 0 {
			problems = append(problems, "scholar.rate_limit must be positive")
		}
	case ProviderS2:
		if c.S2.AuthorID == "" {
			problems = append(problems, "s2.author_id is required")
		}
		if c.S2.RateLimit <= 0 {
			problems = append(problems, "s2.rate_limit must be positive")
		}
	case ProviderFile:
		if c.File.General == "" {
			problems = append(problems, "file.general is required")
		}
	}
	return problems
}

// Masked returns a copy with credentials blanked out for display.
func (c *Config) Masked() *Config {
	out := *c
	out.ADS.Token = mask(c.ADS.Token)
	out.S2.APIKey = mask(c.S2.APIKey)
	return &out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
