package s2

import (
	"context"
	"fmt"

	"github.com/matsen/bibmetrics/internal/author"
	"github.com/matsen/bibmetrics/internal/metrics"
	"github.com/matsen/bibmetrics/internal/source"
)

// Name is the provider name used in configuration.
const Name = "s2"

// Source reads an author's papers from Semantic Scholar. The lead group
// matches the tracked author's ID in first position; a first author that
// Semantic Scholar has not linked to an ID falls back to name matching.
type Source struct {
	client   *Client
	authorID string
	names    author.PositionResolver
}

// NewSource creates a Semantic Scholar source for the given author ID.
// names may be nil, in which case first authors without an ID never lead.
func NewSource(client *Client, authorID string, names author.PositionResolver) *Source {
	return &Source{client: client, authorID: authorID, names: names}
}

// Name returns the provider name.
func (s *Source) Name() string { return Name }

// Groups returns the author's papers and the subset they lead.
func (s *Source) Groups() (source.Group, *source.Group) {
	return source.Group{Name: metrics.GroupGeneral, ID: s.authorID},
		&source.Group{Name: metrics.GroupLead, ID: s.authorID, LeadOnly: true}
}

// Fetch retrieves the group's papers.
func (s *Source) Fetch(ctx context.Context, group source.Group) (*metrics.WorkSet, error) {
	if group.ID == "" {
		return nil, fmt.Errorf("%w: no Semantic Scholar author ID configured", source.ErrUnavailable)
	}

	papers, err := s.client.AuthorPapers(ctx, group.ID)
	if err != nil {
		if IsAuthError(err) || IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", source.ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", source.ErrSource, err)
	}

	ids := author.NewIDResolver(group.ID)
	works := make([]metrics.Work, 0, len(papers))
	for _, p := range papers {
		w := MapPaperToWork(p)
		if group.LeadOnly && !s.isLead(ids, p, w) {
			continue
		}
		works = append(works, w)
	}
	return metrics.NewWorkSet(group.Name, works), nil
}

func (s *Source) isLead(ids *author.IDResolver, p S2Paper, w metrics.Work) bool {
	if len(p.Authors) == 0 {
		return false
	}
	if p.Authors[0].AuthorID != "" {
		return ids.IsLead(authorIDs(p))
	}
	return s.names != nil && s.names.IsLead(w.Authors)
}
