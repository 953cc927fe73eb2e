package s2

import (
	"strings"

	"github.com/matsen/bibmetrics/internal/metrics"
)

// Common name suffixes to keep with the last name.
var nameSuffixes = map[string]bool{
	"jr":   true,
	"jr.":  true,
	"sr":   true,
	"sr.":  true,
	"ii":   true,
	"iii":  true,
	"iv":   true,
	"v":    true,
	"phd":  true,
	"ph.d": true,
	"md":   true,
	"m.d":  true,
}

// MapPaperToWork converts an S2Paper to a Work. Authors are rendered as
// "Last, First" so they read like ADS author strings.
func MapPaperToWork(paper S2Paper) metrics.Work {
	w := metrics.Work{
		Title:   paper.Title,
		Year:    paper.Year,
		Authors: make([]string, 0, len(paper.Authors)),
	}
	if paper.Citations != nil {
		w.Citations = *paper.Citations
	} else {
		w.Partial = true
	}
	for _, a := range paper.Authors {
		w.Authors = append(w.Authors, formatAuthorName(a.Name))
	}
	return w
}

// authorIDs returns the author IDs of a paper in order; unknown authors are "".
func authorIDs(paper S2Paper) []string {
	ids := make([]string, len(paper.Authors))
	for i, a := range paper.Authors {
		ids[i] = a.AuthorID
	}
	return ids
}

func formatAuthorName(name string) string {
	first, last := splitAuthorName(name)
	if first == "" {
		return last
	}
	return last + ", " + first
}

// splitAuthorName splits a full name into first and last name.
// Handles common suffixes (Jr, Sr, II, III, IV, PhD, MD).
//
// Known limitations:
// - Multi-part surnames (von Neumann, van der Waals) split incorrectly
// - Non-Western name formats may not be handled correctly
// - Middle names are included in the first name
func splitAuthorName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		// Single name (e.g., "Madonna")
		return "", parts[0]
	}

	// Check if the last part is a suffix
	lastPart := strings.ToLower(parts[len(parts)-1])
	if nameSuffixes[lastPart] && len(parts) > 2 {
		// Keep suffix with last name
		last = parts[len(parts)-2] + " " + parts[len(parts)-1]
		first = strings.Join(parts[:len(parts)-2], " ")
	} else {
		// Standard split: last part is last name
		last = parts[len(parts)-1]
		first = strings.Join(parts[:len(parts)-1], " ")
	}

	return first, last
}
