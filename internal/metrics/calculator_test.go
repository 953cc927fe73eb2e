package metrics

import (
	"reflect"
	"testing"
)

func worksFromCounts(counts ...int) []Work {
	works := make([]Work, len(counts))
	for i, c := range counts {
		works[i] = Work{Title: "paper", Citations: c}
	}
	return works
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   Record
	}{
		{
			name:   "empty",
			counts: nil,
			want:   Record{},
		},
		{
			name:   "single uncited work",
			counts: []int{0},
			want:   Record{TotalPapers: 1},
		},
		{
			name:   "three works with ten citations",
			counts: []int{10, 10, 10},
			want:   Record{TotalPapers: 3, TotalCitations: 30, HIndex: 3, GIndex: 3, I10Index: 3},
		},
		{
			name:   "descending five",
			counts: []int{5, 4, 3, 2, 1},
			want:   Record{TotalPapers: 5, TotalCitations: 15, HIndex: 3, GIndex: 3, I10Index: 0},
		},
		{
			name:   "unsorted input",
			counts: []int{1, 3, 5, 2, 4},
			want:   Record{TotalPapers: 5, TotalCitations: 15, HIndex: 3, GIndex: 3, I10Index: 0},
		},
		{
			name:   "one highly cited work",
			counts: []int{100, 0, 0, 0},
			want:   Record{TotalPapers: 4, TotalCitations: 100, HIndex: 1, GIndex: 4, I10Index: 1},
		},
		{
			name:   "negative counts coerced to zero",
			counts: []int{-5, 3, 2},
			want:   Record{TotalPapers: 3, TotalCitations: 5, HIndex: 2, GIndex: 2, I10Index: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(NewWorkSet(GroupGeneral, worksFromCounts(tt.counts...)))
			if got != tt.want {
				t.Errorf("Compute(%v) = %+v, want %+v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestCompute_NilWorkSet(t *testing.T) {
	if got := Compute(nil); got != (Record{}) {
		t.Errorf("Compute(nil) = %+v, want zero record", got)
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	ws := NewWorkSet(GroupGeneral, worksFromCounts(1, 5, 3))
	Compute(ws)
	if got := ws.Citations(); !reflect.DeepEqual(got, []int{1, 5, 3}) {
		t.Errorf("works reordered: %v", got)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	ws := NewWorkSet(GroupGeneral, worksFromCounts(42, 17, 9, 9, 3, 0, 11))
	first := Compute(ws)
	second := Compute(ws)
	if first != second {
		t.Errorf("Compute not idempotent: %+v vs %+v", first, second)
	}
}

func TestCompute_Usage(t *testing.T) {
	ws := NewWorkSet(GroupGeneral, []Work{
		{Citations: 3, Reads: 100, Downloads: 20},
		{Citations: 1, Reads: 50, Downloads: 5},
	})
	ws.HasUsage = true

	got := Compute(ws)
	if got.TotalReads != 150 || got.TotalDownloads != 25 || !got.HasUsage {
		t.Errorf("usage totals = reads %d downloads %d has %v, want 150/25/true",
			got.TotalReads, got.TotalDownloads, got.HasUsage)
	}

	ws.HasUsage = false
	got = Compute(ws)
	if got.TotalReads != 0 || got.TotalDownloads != 0 {
		t.Errorf("usage totals reported without HasUsage: %+v", got)
	}
}

func TestGIndex_FullScan(t *testing.T) {
	// Hand-built sequence where the cumulative sum recovers after falling behind.
	// Sorting happens inside GIndex, so feed values whose sorted order is fixed.
	counts := []int{4, 0, 0, 0}
	// S1=4>=1, S2=4>=4, S3=4<9, S4=4<16
	if got := GIndex(counts); got != 2 {
		t.Errorf("GIndex(%v) = %d, want 2", counts, got)
	}

	// gIndexSorted receives an already ordered slice; give it a non-monotonic one
	// to pin the "last qualifying prefix" rule.
	if got := gIndexSorted([]int{1, 0, 10}); got != 3 {
		t.Errorf("gIndexSorted([1 0 10]) = %d, want 3", got)
	}
}

func TestIndexBounds(t *testing.T) {
	inputs := [][]int{
		{},
		{0, 0, 0},
		{1},
		{1000},
		{1000, 1000},
		{50, 40, 30, 20, 10, 5, 1, 0},
		{3, 3, 3, 3, 3, 3},
	}
	for _, counts := range inputs {
		ws := NewWorkSet(GroupGeneral, worksFromCounts(counts...))
		rec := Compute(ws)
		if rec.HIndex < 0 || rec.HIndex > rec.TotalPapers {
			t.Errorf("%v: h-index %d out of [0, %d]", counts, rec.HIndex, rec.TotalPapers)
		}
		if rec.GIndex < 0 || rec.GIndex > rec.TotalPapers {
			t.Errorf("%v: g-index %d out of [0, %d]", counts, rec.GIndex, rec.TotalPapers)
		}
		if rec.I10Index > rec.TotalPapers {
			t.Errorf("%v: i10-index %d > %d", counts, rec.I10Index, rec.TotalPapers)
		}
		if rec.HIndex > rec.GIndex {
			t.Errorf("%v: h-index %d > g-index %d", counts, rec.HIndex, rec.GIndex)
		}
		if rec.TotalCitations != TotalCitations(counts) {
			t.Errorf("%v: total citations %d, want %d", counts, rec.TotalCitations, TotalCitations(counts))
		}
	}
}

func TestHIndexAndI10Index(t *testing.T) {
	tests := []struct {
		counts  []int
		wantH   int
		wantI10 int
	}{
		{nil, 0, 0},
		{[]int{0}, 0, 0},
		{[]int{10, 10, 10}, 3, 3},
		{[]int{5, 4, 3, 2, 1}, 3, 0},
		{[]int{25, 8, 5, 3, 3}, 3, 1},
		{[]int{9, 10, 11}, 3, 2},
	}
	for _, tt := range tests {
		if got := HIndex(tt.counts); got != tt.wantH {
			t.Errorf("HIndex(%v) = %d, want %d", tt.counts, got, tt.wantH)
		}
		if got := I10Index(tt.counts); got != tt.wantI10 {
			t.Errorf("I10Index(%v) = %d, want %d", tt.counts, got, tt.wantI10)
		}
	}
}

func TestWorkSet_FilterAndPartial(t *testing.T) {
	ws := NewWorkSet(GroupGeneral, []Work{
		{Title: "a", Citations: 4, Authors: []string{"Smith, J."}},
		{Title: "b", Partial: true, Authors: []string{"Doe, A.", "Smith, J."}},
		{Title: "c", Citations: 2, Authors: []string{"Smith, J."}},
	})
	ws.HasUsage = true

	if got := ws.PartialCount(); got != 1 {
		t.Errorf("PartialCount() = %d, want 1", got)
	}

	lead := ws.Filter(GroupLead, func(w Work) bool { return w.Authors[0] == "Smith, J." })
	if lead.TotalPapers != 2 || lead.Group != GroupLead || !lead.HasUsage {
		t.Errorf("Filter() = %+v, want 2 lead works with usage", lead)
	}
}
