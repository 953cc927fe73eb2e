// Package author provides author name parsing and matching used to decide
// whether the tracked author leads a given work.
package author

import (
	"strings"
	"unicode"
)

// Name is a parsed author name.
type Name struct {
	First string // Given name(s) or initials (may be empty)
	Last  string // Family name
}

// ParseQuery parses an author string into a structured Name.
//
// Supported formats:
//   - "Petigura"             → last="Petigura"
//   - "Erik Petigura"        → first="Erik", last="Petigura"
//   - "EA Petigura"          → first="EA", last="Petigura" (Scholar style)
//   - "Petigura, E. A."      → first="E. A.", last="Petigura" (ADS style)
//   - "Petigura, E.~A."      → first="E. A.", last="Petigura" (LaTeX tie)
//
// Names are trimmed but case is preserved (matching is case-insensitive).
func ParseQuery(input string) Name {
	input = strings.TrimSpace(strings.ReplaceAll(input, "~", " "))
	if input == "" {
		return Name{}
	}

	// Check for comma format: "Last, First"
	if idx := strings.Index(input, ","); idx > 0 {
		last := strings.TrimSpace(input[:idx])
		first := strings.Join(strings.Fields(input[idx+1:]), " ")
		return Name{First: first, Last: last}
	}

	parts := strings.Fields(input)
	if len(parts) == 1 {
		return Name{Last: parts[0]}
	}

	// Multiple words: last word is last name, rest is first name
	last := parts[len(parts)-1]
	first := strings.Join(parts[:len(parts)-1], " ")
	return Name{First: first, Last: last}
}

// Matches checks if the query matches a given author.
//
// Matching rules:
//   - Last name: case-insensitive exact match (required)
//   - First name: when either side is initials only, the first initials must agree;
//     otherwise case-insensitive prefix match (if query has first name)
//
// This lets "Petigura, E." match "Erik A. Petigura" and "Tim Yu" match
// "Timothy C Yu", while "Yu" never matches "Yujia".
func (q Name) Matches(a Name) bool {
	if !strings.EqualFold(q.Last, a.Last) {
		return false
	}

	if q.First == "" || a.First == "" {
		return true
	}

	qFirst := strings.ToLower(stripPunct(q.First))
	aFirst := strings.ToLower(stripPunct(a.First))
	if qFirst == "" || aFirst == "" {
		return true
	}

	if isInitials(q.First) || isInitials(a.First) {
		return []rune(qFirst)[0] == []rune(aFirst)[0]
	}
	return strings.HasPrefix(aFirst, qFirst)
}

// Position returns the 1-based position of the first author in the list that
// matches the query, or 0 if none does. Ellipsis placeholders are skipped
// without consuming a position.
func (q Name) Position(authors []string) int {
	pos := 0
	for _, raw := range authors {
		raw = strings.TrimSpace(raw)
		if raw == "" || isEllipsis(raw) {
			continue
		}
		pos++
		if q.Matches(ParseQuery(raw)) {
			return pos
		}
	}
	return 0
}

// isInitials reports whether a given-name string is made of initials only,
// such as "E.", "E. A.", "EA" or "E-A".
func isInitials(first string) bool {
	for _, part := range strings.FieldsFunc(first, func(r rune) bool {
		return r == ' ' || r == '.' || r == '-'
	}) {
		runes := []rune(part)
		if len(runes) == 1 {
			continue
		}
		// Scholar packs initials together in capitals ("EA")
		if len(runes) <= 3 && allUpper(runes) {
			continue
		}
		return false
	}
	return true
}

func allUpper(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func isEllipsis(s string) bool {
	return s == "..." || s == "…" || strings.EqualFold(s, "et al.") || strings.EqualFold(s, "et al")
}
