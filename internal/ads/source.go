package ads

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matsen/bibmetrics/internal/author"
	"github.com/matsen/bibmetrics/internal/metrics"
	"github.com/matsen/bibmetrics/internal/source"
)

// Name is the provider name used in configuration.
const Name = "ads"

// Source reads works from ADS libraries.
type Source struct {
	client         *Client
	generalLibrary string
	leadLibrary    string
	resolver       author.PositionResolver
}

// NewSource creates an ADS source. When leadLibrary is empty the lead group is
// derived from the general library with the resolver.
func NewSource(client *Client, generalLibrary, leadLibrary string, resolver author.PositionResolver) *Source {
	return &Source{
		client:         client,
		generalLibrary: generalLibrary,
		leadLibrary:    leadLibrary,
		resolver:       resolver,
	}
}

// Name returns the provider name.
func (s *Source) Name() string { return Name }

// Groups returns the configured library groups.
func (s *Source) Groups() (source.Group, *source.Group) {
	general := source.Group{Name: metrics.GroupGeneral, ID: s.generalLibrary}
	if s.leadLibrary != "" {
		return general, &source.Group{Name: metrics.GroupLead, ID: s.leadLibrary}
	}
	if s.resolver != nil {
		return general, &source.Group{Name: metrics.GroupLead, ID: s.generalLibrary, LeadOnly: true}
	}
	return general, nil
}

// Fetch retrieves every record of the group's library.
func (s *Source) Fetch(ctx context.Context, group source.Group) (*metrics.WorkSet, error) {
	if !s.client.HasToken() {
		return nil, fmt.Errorf("%w: ADS token not configured", source.ErrUnavailable)
	}
	if group.ID == "" {
		return nil, fmt.Errorf("%w: no ADS library configured for %s", source.ErrUnavailable, group.Name)
	}

	docs, err := s.client.LibraryDocs(ctx, group.ID)
	if err != nil {
		if IsAuthError(err) {
			return nil, fmt.Errorf("%w: %w", source.ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", source.ErrSource, err)
	}

	ws := metrics.NewWorkSet(group.Name, DocsToWorks(docs))
	ws.HasUsage = true
	return source.ApplyGroup(ws, group, s.resolver)
}

// DocsToWorks converts ADS records into works, coercing missing counts to zero.
func DocsToWorks(docs []Doc) []metrics.Work {
	works := make([]metrics.Work, len(docs))
	for i, d := range docs {
		w := metrics.Work{
			Authors:   d.Author,
			Downloads: d.Downloads.Value,
		}
		if len(d.Title) > 0 {
			w.Title = d.Title[0]
		}
		if year, err := strconv.Atoi(d.Year); err == nil {
			w.Year = year
		}
		if d.CitationCount != nil {
			w.Citations = *d.CitationCount
		} else {
			w.Partial = true
		}
		if d.ReadCount != nil {
			w.Reads = *d.ReadCount
		}
		works[i] = w
	}
	return works
}
