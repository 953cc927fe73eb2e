package author

import (
	"errors"
	"strings"
)

// ErrEmptyName is returned when a resolver is built without a usable last name.
var ErrEmptyName = errors.New("author name must include a last name")

// PositionResolver decides whether the tracked author leads a work,
// given the work's author list in publication order.
type PositionResolver interface {
	IsLead(authors []string) bool
}

// NameResolver matches the tracked author against free-text author strings.
// It is a heuristic: it trusts that the first listed name is the lead author.
type NameResolver struct {
	name Name
}

// NewNameResolver parses the tracked author's name into a resolver.
func NewNameResolver(name string) (*NameResolver, error) {
	parsed := ParseQuery(name)
	if parsed.Last == "" {
		return nil, ErrEmptyName
	}
	return &NameResolver{name: parsed}, nil
}

// Name returns the parsed name used for matching.
func (r *NameResolver) Name() Name {
	return r.name
}

// IsLead reports whether the tracked author appears in the first position.
func (r *NameResolver) IsLead(authors []string) bool {
	return r.name.Position(authors) == 1
}

// IDResolver matches the tracked author by a provider-assigned author ID.
// Authors are passed as IDs in publication order.
type IDResolver struct {
	id string
}

// NewIDResolver returns a resolver that matches the given author ID.
func NewIDResolver(id string) *IDResolver {
	return &IDResolver{id: strings.TrimSpace(id)}
}

// IsLead reports whether the first listed ID equals the tracked author's ID.
// Authors without an ID are passed as empty strings and never match.
func (r *IDResolver) IsLead(authorIDs []string) bool {
	if r.id == "" || len(authorIDs) == 0 {
		return false
	}
	return strings.TrimSpace(authorIDs[0]) == r.id
}
