package author

import (
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Name
	}{
		{
			name:  "single word is last name",
			input: "Petigura",
			want:  Name{Last: "Petigura"},
		},
		{
			name:  "two words is First Last",
			input: "Erik Petigura",
			want:  Name{First: "Erik", Last: "Petigura"},
		},
		{
			name:  "three words: first two are first name",
			input: "Erik A. Petigura",
			want:  Name{First: "Erik A.", Last: "Petigura"},
		},
		{
			name:  "scholar packed initials",
			input: "EA Petigura",
			want:  Name{First: "EA", Last: "Petigura"},
		},
		{
			name:  "comma format: Last, First",
			input: "Petigura, E. A.",
			want:  Name{First: "E. A.", Last: "Petigura"},
		},
		{
			name:  "latex tie between initials",
			input: "Petigura, E.~A.",
			want:  Name{First: "E. A.", Last: "Petigura"},
		},
		{
			name:  "leading/trailing whitespace",
			input: "  Howard  ",
			want:  Name{Last: "Howard"},
		},
		{
			name:  "empty string",
			input: "",
			want:  Name{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  Name{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.input)
			if got != tt.want {
				t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameMatches(t *testing.T) {
	tests := []struct {
		name   string
		query  Name
		author Name
		want   bool
	}{
		{
			name:   "exact last name match",
			query:  Name{Last: "Petigura"},
			author: Name{First: "Erik A.", Last: "Petigura"},
			want:   true,
		},
		{
			name:   "last name case-insensitive",
			query:  Name{Last: "petigura"},
			author: Name{First: "Erik", Last: "Petigura"},
			want:   true,
		},
		{
			name:   "last name must match exactly",
			query:  Name{Last: "Yu"},
			author: Name{First: "Timothy", Last: "Yujia"},
			want:   false,
		},
		{
			name:   "first name prefix",
			query:  Name{First: "Tim", Last: "Yu"},
			author: Name{First: "Timothy C", Last: "Yu"},
			want:   true,
		},
		{
			name:   "first name mismatch",
			query:  Name{First: "Tom", Last: "Yu"},
			author: Name{First: "Timothy", Last: "Yu"},
			want:   false,
		},
		{
			name:   "initial query matches full name",
			query:  Name{First: "E.", Last: "Petigura"},
			author: Name{First: "Erik", Last: "Petigura"},
			want:   true,
		},
		{
			name:   "full query matches packed initials",
			query:  Name{First: "Erik", Last: "Petigura"},
			author: Name{First: "EA", Last: "Petigura"},
			want:   true,
		},
		{
			name:   "initials disagree",
			query:  Name{First: "E. A.", Last: "Petigura"},
			author: Name{First: "J", Last: "Petigura"},
			want:   false,
		},
		{
			name:   "author without first name",
			query:  Name{First: "Erik", Last: "Petigura"},
			author: Name{Last: "Petigura"},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Matches(tt.author); got != tt.want {
				t.Errorf("%+v.Matches(%+v) = %v, want %v", tt.query, tt.author, got, tt.want)
			}
		})
	}
}

func TestNamePosition(t *testing.T) {
	q := ParseQuery("Petigura, E.")
	tests := []struct {
		name    string
		authors []string
		want    int
	}{
		{"lead", []string{"Petigura, E. A.", "Howard, A. W."}, 1},
		{"second", []string{"Howard, A. W.", "Petigura, E. A."}, 2},
		{"scholar style", []string{"EA Petigura", "AW Howard", "GW Marcy"}, 1},
		{"ellipsis skipped", []string{"AW Howard", "...", "EA Petigura"}, 2},
		{"absent", []string{"AW Howard", "GW Marcy"}, 0},
		{"empty list", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := q.Position(tt.authors); got != tt.want {
				t.Errorf("Position(%v) = %d, want %d", tt.authors, got, tt.want)
			}
		})
	}
}
