// Package metrics derives author-impact statistics from per-work citation counts.
package metrics

// Group names used across sources and the report.
const (
	GroupGeneral = "general" // All works attributed to the author
	GroupLead    = "lead"    // Works where the author is first author
)

// Work is a single scholarly work as reported by a source.
type Work struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Year      int      `json:"year,omitempty"`
	Citations int      `json:"citations"`
	Reads     int      `json:"reads,omitempty"`
	Downloads int      `json:"downloads,omitempty"`

	// Partial is set when the source omitted the citation count and it was coerced to 0.
	Partial bool `json:"partial,omitempty"`
}

// WorkSet is one logical grouping of works fetched in a single run.
type WorkSet struct {
	Group       string `json:"group"`
	Works       []Work `json:"works"`
	TotalPapers int    `json:"total_papers"`

	// HasUsage reports whether the source provides read and download counts.
	HasUsage bool `json:"has_usage,omitempty"`
}

// NewWorkSet builds a WorkSet whose paper count matches the number of works.
func NewWorkSet(group string, works []Work) *WorkSet {
	return &WorkSet{
		Group:       group,
		Works:       works,
		TotalPapers: len(works),
	}
}

// Citations returns the citation count of every work, in source order.
func (ws *WorkSet) Citations() []int {
	if ws == nil {
		return nil
	}
	counts := make([]int, len(ws.Works))
	for i, w := range ws.Works {
		counts[i] = w.Citations
	}
	return counts
}

// PartialCount returns how many works lacked a citation count.
func (ws *WorkSet) PartialCount() int {
	if ws == nil {
		return 0
	}
	n := 0
	for _, w := range ws.Works {
		if w.Partial {
			n++
		}
	}
	return n
}

// Filter returns a new WorkSet with the works for which keep returns true.
func (ws *WorkSet) Filter(group string, keep func(Work) bool) *WorkSet {
	var works []Work
	for _, w := range ws.Works {
		if keep(w) {
			works = append(works, w)
		}
	}
	out := NewWorkSet(group, works)
	out.HasUsage = ws.HasUsage
	return out
}

// Record is the calculator output for one WorkSet.
type Record struct {
	TotalPapers    int `json:"total_papers"`
	TotalCitations int `json:"total_citations"`
	HIndex         int `json:"h_index"`
	GIndex         int `json:"g_index"`
	I10Index       int `json:"i10_index"`

	// Usage totals are only meaningful when HasUsage is set.
	TotalReads     int  `json:"total_reads,omitempty"`
	TotalDownloads int  `json:"total_downloads,omitempty"`
	HasUsage       bool `json:"has_usage,omitempty"`
}
