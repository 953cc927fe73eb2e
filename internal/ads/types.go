// Package ads provides a client and citation source for the NASA Astrophysics
// Data System, whose curated libraries are the authoritative record of an
// author's publications.
package ads

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Doc is a single record from the ADS search API.
type Doc struct {
	Bibcode       string   `json:"bibcode"`
	Title         []string `json:"title,omitempty"`
	Author        []string `json:"author,omitempty"`
	Year          string   `json:"year,omitempty"`
	CitationCount *int     `json:"citation_count"`
	ReadCount     *int     `json:"read_count"`
	Downloads     Count    `json:"downloads"`
}

// SearchResponse is the response from the search/query endpoint.
type SearchResponse struct {
	Response struct {
		NumFound int   `json:"numFound"`
		Start    int   `json:"start"`
		Docs     []Doc `json:"docs"`
	} `json:"response"`
}

// exportRequest is the body for the export endpoints.
type exportRequest struct {
	Bibcode []string `json:"bibcode"`
	Sort    []string `json:"sort,omitempty"`
}

// exportResponse is the response from the export endpoints.
type exportResponse struct {
	Msg    string `json:"msg"`
	Export string `json:"export"`
}

// Count is a usage count ADS reports either as a number or as a per-period array.
// Arrays are summed; null and absent values decode as zero with Set false.
type Count struct {
	Value int
	Set   bool
}

// MarshalJSON encodes the count as a plain number, or null when unset.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Set {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON accepts a number, an array of numbers, or null.
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Count{}
		return nil
	}

	if data[0] == '[' {
		var values []float64
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("decoding count array: %w", err)
		}
		total := 0
		for _, v := range values {
			total += int(v)
		}
		*c = Count{Value: total, Set: true}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding count: %w", err)
	}
	*c = Count{Value: int(v), Set: true}
	return nil
}
