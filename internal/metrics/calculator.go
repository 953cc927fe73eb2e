package metrics

import "sort"

// I10Threshold is the minimum citation count for a work to count toward the i10-index.
const I10Threshold = 10

// Compute derives the full Record for a WorkSet. A nil WorkSet yields a zero Record.
func Compute(ws *WorkSet) Record {
	if ws == nil {
		return Record{}
	}

	sorted := sortedDescending(ws.Citations())
	rec := Record{
		TotalPapers:    ws.TotalPapers,
		TotalCitations: sum(sorted),
		HIndex:         hIndexSorted(sorted),
		GIndex:         gIndexSorted(sorted),
		I10Index:       I10Index(sorted),
		HasUsage:       ws.HasUsage,
	}
	if rec.TotalPapers < len(ws.Works) {
		rec.TotalPapers = len(ws.Works)
	}

	if ws.HasUsage {
		for _, w := range ws.Works {
			rec.TotalReads += clamp(w.Reads)
			rec.TotalDownloads += clamp(w.Downloads)
		}
	}
	return rec
}

// HIndex returns the largest h such that h works have at least h citations each.
func HIndex(citations []int) int {
	return hIndexSorted(sortedDescending(citations))
}

// GIndex returns the largest g such that the top g works together have at least g² citations.
func GIndex(citations []int) int {
	return gIndexSorted(sortedDescending(citations))
}

// I10Index returns the number of works with at least ten citations.
func I10Index(citations []int) int {
	n := 0
	for _, c := range citations {
		if c >= I10Threshold {
			n++
		}
	}
	return n
}

// TotalCitations returns the sum of all citation counts, treating negatives as zero.
func TotalCitations(citations []int) int {
	total := 0
	for _, c := range citations {
		total += clamp(c)
	}
	return total
}

func hIndexSorted(sorted []int) int {
	h := 0
	for i, c := range sorted {
		if c >= i+1 {
			h++
		}
	}
	return h
}

// gIndexSorted scans the whole list and keeps the last qualifying prefix length,
// so a prefix that recovers after falling behind i² is still counted.
func gIndexSorted(sorted []int) int {
	g, cumulative := 0, 0
	for i, c := range sorted {
		rank := i + 1
		cumulative += c
		if cumulative >= rank*rank {
			g = rank
		}
	}
	return g
}

// sortedDescending returns a clamped, descending copy; the input is not modified.
func sortedDescending(citations []int) []int {
	out := make([]int, len(citations))
	for i, c := range citations {
		out[i] = clamp(c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func clamp(c int) int {
	if c < 0 {
		return 0
	}
	return c
}
