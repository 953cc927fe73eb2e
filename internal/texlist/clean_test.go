package texlist

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/bibmetrics/internal/author"
)

func TestBoldForms(t *testing.T) {
	tests := []struct {
		name author.Name
		want []string
	}{
		{author.Name{First: "Erik A.", Last: "Petigura"}, []string{"Petigura, E.~A.", "Petigura, E."}},
		{author.Name{First: "EA", Last: "Petigura"}, []string{"Petigura, E.~A.", "Petigura, E."}},
		{author.Name{First: "E.", Last: "Petigura"}, []string{"Petigura, E."}},
		{author.Name{First: "Jean-Luc", Last: "Picard"}, []string{"Picard, J.~L.", "Picard, J."}},
		{author.Name{Last: "Madonna"}, []string{"Madonna"}},
		{author.Name{}, nil},
	}
	for _, tt := range tests {
		if got := BoldForms(tt.name); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("BoldForms(%+v) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestClean_Bold(t *testing.T) {
	opts := Options{Bold: BoldForms(author.Name{First: "Erik A.", Last: "Petigura"})}
	got := Clean([]string{
		`\item Petigura, E.~A., Howard, A.~W., 2013, PNAS`,
		`\item Howard, A.~W., Petigura, E., 2012, ApJS`,
	}, opts)
	want := []string{
		`\item {\bf Petigura, E.~A.}, Howard, A.~W., 2013, PNAS`,
		`\item Howard, A.~W., {\bf Petigura, E.}, 2012, ApJS`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Clean() =\n%q\nwant\n%q", got, want)
	}
}

func TestClean_Entities(t *testing.T) {
	got := Clean([]string{
		`\item A, B{\rsquo}s {\amp} C{\rdquo}: K2{&#10753;}Gaia 3{\times}10 {\ndash} done`,
	}, Options{})
	want := `\item A, B's \& C': K2\oplusGaia 3$\times$10 -- done`
	if len(got) != 1 || got[0] != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestClean_DropsHeadersAndErrata(t *testing.T) {
	lines := []string{
		"Query Results from the ADS Database\n",
		"Total number selected: 4\n",
		"\\item First, A. 2010, ApJ\n",
		"\\item Second, B. 2011, Erratum: something\n",
		"  continued erratum line\n",
		"\\item Third, C. 2012, AJ\n",
		"  Third continued\n",
		"\\item Fourth, D. 2013,\n",
		"  Erratum on a continuation line\n",
		"  more\n",
		"\\item Fifth, E. 2014, MNRAS\n",
	}
	want := []string{
		"\\item First, A. 2010, ApJ\n",
		"\\item Third, C. 2012, AJ\n",
		"  Third continued\n",
		"\\item Fifth, E. 2014, MNRAS\n",
	}
	if got := Clean(lines, Options{}); !reflect.DeepEqual(got, want) {
		t.Errorf("Clean() =\n%q\nwant\n%q", got, want)
	}
}

func TestClean_TrailingErratum(t *testing.T) {
	got := Clean([]string{`\item Keep`, `\item Erratum`, `tail`}, Options{})
	if !reflect.DeepEqual(got, []string{`\item Keep`}) {
		t.Errorf("Clean() = %q", got)
	}
}

func TestCleanText(t *testing.T) {
	in := "Total number selected: 1\n\\item Petigura, E. 2020{\\ndash}2021\n"
	got := CleanText(in, Options{Bold: []string{"Petigura, E."}})
	want := "\\item {\\bf Petigura, E.} 2020--2021\n"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
	if CleanText("", Options{}) != "" {
		t.Error("CleanText(\"\") should be empty")
	}
}

func TestProcess(t *testing.T) {
	in := strings.NewReader("Query Results\n\\item One\n\\item Two")
	var out bytes.Buffer
	if err := Process(in, &out, Options{}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "\\item One\n\\item Two" {
		t.Errorf("Process() wrote %q", out.String())
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"pubs-ads.txt", "pubs-tex.txt"},
		{"sections/ads.tex", "sections/tex.tex"},
		{"ads/pubs-ads.txt", "ads/pubs-tex.txt"},
		{"export.txt", "export.tex"},
		{"export.tex", "export.clean.tex"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.input); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
