// Package storage reads and writes works as JSONL, one work per line, so a
// fetched work list can be replayed offline as a citation source.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/bibmetrics/internal/metrics"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// workRecord is the on-disk form of a work. Counts are pointers so a missing
// or null citation count can be told apart from zero.
type workRecord struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Year      int      `json:"year,omitempty"`
	Citations *int     `json:"citations"`
	Reads     *int     `json:"reads,omitempty"`
	Downloads *int     `json:"downloads,omitempty"`
}

// ReadWorks reads all works from a JSONL file. It also reports whether any
// line carried read or download counts.
func ReadWorks(path string) ([]metrics.Work, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("opening works file: %w", err)
	}
	defer f.Close()

	var works []metrics.Work
	hasUsage := false
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var rec workRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, false, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}

		w := metrics.Work{Title: rec.Title, Authors: rec.Authors, Year: rec.Year}
		if rec.Citations != nil {
			w.Citations = *rec.Citations
		} else {
			w.Partial = true
		}
		if rec.Reads != nil {
			w.Reads = *rec.Reads
			hasUsage = true
		}
		if rec.Downloads != nil {
			w.Downloads = *rec.Downloads
			hasUsage = true
		}
		works = append(works, w)
	}

	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("reading works file: %w", err)
	}

	return works, hasUsage, nil
}

// WriteWorks writes all works to a JSONL file, replacing existing content.
// Usage counts are written only when withUsage is set; partial works are
// written with a null citation count.
func WriteWorks(path string, works []metrics.Work, withUsage bool) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		for i, work := range works {
			rec := workRecord{Title: work.Title, Authors: work.Authors, Year: work.Year}
			if !work.Partial {
				cites := work.Citations
				rec.Citations = &cites
			}
			if withUsage {
				reads, downloads := work.Reads, work.Downloads
				rec.Reads, rec.Downloads = &reads, &downloads
			}
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("writing work %d: %w", i, err)
			}
		}
		return nil
	})
}
