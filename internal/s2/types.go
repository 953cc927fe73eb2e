// Package s2 reads an author's papers from the Semantic Scholar Academic Graph API.
package s2

// S2Paper represents a paper from the Semantic Scholar API.
type S2Paper struct {
	PaperID   string     `json:"paperId"`
	Title     string     `json:"title"`
	Authors   []S2Author `json:"authors,omitempty"`
	Year      int        `json:"year,omitempty"`
	Venue     string     `json:"venue,omitempty"`
	Citations *int       `json:"citationCount"`
}

// S2Author represents an author from the Semantic Scholar API.
type S2Author struct {
	AuthorID string `json:"authorId,omitempty"`
	Name     string `json:"name"`
}

// AuthorPapersResponse is one page from the author papers endpoint.
type AuthorPapersResponse struct {
	Offset int       `json:"offset"`
	Next   *int      `json:"next,omitempty"`
	Data   []S2Paper `json:"data"`
}
