package scholar

import (
	"context"
	"fmt"

	"github.com/matsen/bibmetrics/internal/author"
	"github.com/matsen/bibmetrics/internal/metrics"
	"github.com/matsen/bibmetrics/internal/source"
)

// Name is the provider name used in configuration.
const Name = "scholar"

// Source reads works from a public Scholar profile. Scholar has no notion of a
// lead-author list, so the lead group is derived with the resolver.
type Source struct {
	client   *Client
	user     string
	resolver author.PositionResolver
}

// NewSource creates a Scholar source for the given profile user ID.
func NewSource(client *Client, user string, resolver author.PositionResolver) *Source {
	return &Source{client: client, user: user, resolver: resolver}
}

// Name returns the provider name.
func (s *Source) Name() string { return Name }

// Groups returns the profile as general group and a filtered lead group.
func (s *Source) Groups() (source.Group, *source.Group) {
	general := source.Group{Name: metrics.GroupGeneral, ID: s.user}
	if s.resolver == nil {
		return general, nil
	}
	return general, &source.Group{Name: metrics.GroupLead, ID: s.user, LeadOnly: true}
}

// Fetch crawls the group's profile.
func (s *Source) Fetch(ctx context.Context, group source.Group) (*metrics.WorkSet, error) {
	if group.ID == "" {
		return nil, fmt.Errorf("%w: no Scholar profile configured", source.ErrUnavailable)
	}

	works, err := s.client.ProfileWorks(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrSource, err)
	}
	return source.ApplyGroup(metrics.NewWorkSet(group.Name, works), group, s.resolver)
}
