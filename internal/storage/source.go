package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matsen/bibmetrics/internal/author"
	"github.com/matsen/bibmetrics/internal/metrics"
	"github.com/matsen/bibmetrics/internal/source"
)

// Name is the provider name used in configuration.
const Name = "file"

// Source replays works saved as JSONL. The group ID is the file path.
type Source struct {
	generalPath string
	leadPath    string
	resolver    author.PositionResolver
}

// NewSource creates a file source. When leadPath is empty the lead group is
// derived from the general file with the resolver.
func NewSource(generalPath, leadPath string, resolver author.PositionResolver) *Source {
	return &Source{generalPath: generalPath, leadPath: leadPath, resolver: resolver}
}

// Name returns the provider name.
func (s *Source) Name() string { return Name }

// Groups returns the configured file groups.
func (s *Source) Groups() (source.Group, *source.Group) {
	general := source.Group{Name: metrics.GroupGeneral, ID: s.generalPath}
	if s.leadPath != "" {
		return general, &source.Group{Name: metrics.GroupLead, ID: s.leadPath}
	}
	if s.resolver != nil {
		return general, &source.Group{Name: metrics.GroupLead, ID: s.generalPath, LeadOnly: true}
	}
	return general, nil
}

// Fetch reads the group's file.
func (s *Source) Fetch(_ context.Context, group source.Group) (*metrics.WorkSet, error) {
	if group.ID == "" {
		return nil, fmt.Errorf("%w: no works file configured for %s", source.ErrUnavailable, group.Name)
	}

	works, hasUsage, err := ReadWorks(group.ID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", source.ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", source.ErrSource, err)
	}

	ws := metrics.NewWorkSet(group.Name, works)
	ws.HasUsage = hasUsage
	return source.ApplyGroup(ws, group, s.resolver)
}
