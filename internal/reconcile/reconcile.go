// Package reconcile merges metrics from a primary and a secondary provider
// into one report, field by field, degrading to whichever provider survived.
package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/bibmetrics/internal/metrics"
)

// Role names one of the two configured providers.
type Role string

// Provider roles.
const (
	Primary   Role = "primary"
	Secondary Role = "secondary"
)

// ParseRole parses a role name (case-insensitive).
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case Primary, Secondary:
		return r, nil
	}
	return "", fmt.Errorf("invalid provider role %q (valid: primary, secondary)", s)
}

func (r Role) other() Role {
	if r == Primary {
		return Secondary
	}
	return Primary
}

// Policy designates the preferred provider for each group of report fields.
type Policy struct {
	Papers    Role // total_papers
	Citations Role // total_citations, total_reads, total_downloads
	Indices   Role // h_index, g_index, i10_index
	Lead      Role // lead_author_papers, lead_author_citations
}

// DefaultPolicy prefers the primary provider for every field.
func DefaultPolicy() Policy {
	return Policy{Papers: Primary, Citations: Primary, Indices: Primary, Lead: Primary}
}

// Outcome is what one provider produced in a run. A provider that failed
// entirely carries Err; a group it could not produce is left nil.
type Outcome struct {
	Provider string
	General  *metrics.Record
	Lead     *metrics.Record
	Err      error
}

func (o *Outcome) ok() bool {
	return o != nil && o.Err == nil
}

func (o *Outcome) general() *metrics.Record {
	if !o.ok() {
		return nil
	}
	return o.General
}

func (o *Outcome) lead() *metrics.Record {
	if !o.ok() {
		return nil
	}
	return o.Lead
}

// Report is the reconciled, flat structure handed to the renderer.
type Report struct {
	LeadPapers     int `json:"lead_author_papers"`
	LeadCitations  int `json:"lead_author_citations"`
	TotalPapers    int `json:"total_papers"`
	TotalCitations int `json:"total_citations"`
	HIndex         int `json:"h_index"`
	GIndex         int `json:"g_index"`
	I10Index       int `json:"i10_index"`
	TotalReads     int `json:"total_reads,omitempty"`
	TotalDownloads int `json:"total_downloads,omitempty"`

	// Degraded is set when a configured provider failed and its fields came
	// from the other provider or defaulted to zero.
	Degraded bool `json:"degraded"`

	// Sources records which provider each field group was taken from.
	Sources map[string]string `json:"sources"`
}

// ErrAllSourcesFailed is returned when no provider produced any data.
var ErrAllSourcesFailed = errors.New("all citation sources failed")

// Reconcile merges the outcomes under the policy. secondary may be nil when
// only one provider was consulted. It fails only when every consulted
// provider failed.
func Reconcile(primary, secondary *Outcome, policy Policy) (*Report, error) {
	byRole := map[Role]*Outcome{Primary: primary, Secondary: secondary}

	var errs []error
	consulted := 0
	for _, role := range []Role{Primary, Secondary} {
		o := byRole[role]
		if o == nil {
			continue
		}
		consulted++
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", role, o.Provider, o.Err))
		}
	}
	if consulted == 0 {
		return nil, fmt.Errorf("%w: no sources consulted", ErrAllSourcesFailed)
	}
	if len(errs) == consulted {
		return nil, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
	}

	report := &Report{
		Degraded: len(errs) > 0,
		Sources:  make(map[string]string),
	}

	// pick returns the designated role's record, else the other role's.
	pick := func(preferred Role, get func(*Outcome) *metrics.Record) (*metrics.Record, string) {
		for _, role := range []Role{preferred, preferred.other()} {
			if rec := get(byRole[role]); rec != nil {
				return rec, byRole[role].Provider
			}
		}
		return nil, ""
	}

	if rec, from := pick(policy.Papers, (*Outcome).general); rec != nil {
		report.TotalPapers = rec.TotalPapers
		report.Sources["total_papers"] = from
	} else if rec, from := pick(policy.Papers, (*Outcome).lead); rec != nil {
		report.TotalPapers = rec.TotalPapers
		report.Sources["total_papers"] = from + " (lead)"
	}

	if rec, from := pick(policy.Citations, (*Outcome).general); rec != nil {
		report.TotalCitations = rec.TotalCitations
		if rec.HasUsage {
			report.TotalReads = rec.TotalReads
			report.TotalDownloads = rec.TotalDownloads
		}
		report.Sources["total_citations"] = from
	}

	if rec, from := pick(policy.Indices, (*Outcome).general); rec != nil {
		report.HIndex = rec.HIndex
		report.GIndex = rec.GIndex
		report.I10Index = rec.I10Index
		report.Sources["indices"] = from
	}

	if rec, from := pick(policy.Lead, (*Outcome).lead); rec != nil {
		report.LeadPapers = rec.TotalPapers
		report.LeadCitations = rec.TotalCitations
		report.Sources["lead"] = from
	}

	return report, nil
}
