// Package source defines the contract every citation record provider satisfies
// and the strategies for choosing between providers.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/matsen/bibmetrics/internal/author"
	"github.com/matsen/bibmetrics/internal/metrics"
)

// Group identifies one logical grouping of works to request from a provider.
type Group struct {
	Name string // metrics.GroupGeneral or metrics.GroupLead
	ID   string // Provider-specific identifier (library ID, profile ID, author ID, path)

	// LeadOnly asks the provider to keep only works the tracked author leads.
	// Providers whose ID already denotes a lead-author grouping leave this unset.
	LeadOnly bool
}

// String returns "name:id" for diagnostics.
func (g Group) String() string {
	if g.LeadOnly {
		return g.Name + ":" + g.ID + " (lead filter)"
	}
	return g.Name + ":" + g.ID
}

// Source fetches the works for a group from one provider.
type Source interface {
	// Name returns the provider name (e.g. "ads", "scholar").
	Name() string

	// Groups returns the general and lead groups this provider was configured with.
	// The lead group is nil when the provider has no way to express one.
	Groups() (general Group, lead *Group)

	// Fetch retrieves the works for a group. It fails with ErrUnavailable when
	// credentials are missing and with ErrSource when the remote call fails.
	Fetch(ctx context.Context, group Group) (*metrics.WorkSet, error)
}

// Mode selects which provider(s) a run consults.
type Mode string

// Supported modes.
const (
	ModePrimary   Mode = "primary"
	ModeSecondary Mode = "secondary"
	ModeCombined  Mode = "combined"
)

// ValidModes lists the supported mode values.
var ValidModes = []Mode{ModePrimary, ModeSecondary, ModeCombined}

// ParseMode parses a mode name (case-insensitive).
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidModes {
		if m == valid {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid source mode %q (valid: primary, secondary, combined)", s)
}

// UsesPrimary reports whether the mode consults the primary provider.
func (m Mode) UsesPrimary() bool {
	return m == ModePrimary || m == ModeCombined
}

// UsesSecondary reports whether the mode consults the secondary provider.
func (m Mode) UsesSecondary() bool {
	return m == ModeSecondary || m == ModeCombined
}

// LeadFilter returns a WorkSet predicate keeping works the resolver deems led
// by the tracked author.
func LeadFilter(r author.PositionResolver) func(metrics.Work) bool {
	return func(w metrics.Work) bool {
		return r.IsLead(w.Authors)
	}
}

// ApplyGroup narrows a fetched WorkSet to the requested group. Works are kept
// as-is unless the group asks for lead-author filtering.
func ApplyGroup(ws *metrics.WorkSet, group Group, r author.PositionResolver) (*metrics.WorkSet, error) {
	if !group.LeadOnly {
		ws.Group = group.Name
		return ws, nil
	}
	if r == nil {
		return nil, fmt.Errorf("%w: lead-author filtering needs a lead_author name", ErrUnavailable)
	}
	return ws.Filter(group.Name, LeadFilter(r)), nil
}
