// Package texlist cleans an ADS AASTeX publication export into a list that
// can be \input into a CV.
package texlist

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/matsen/bibmetrics/internal/author"
)

// entityReplacer maps the HTML-ish entities left in ADS exports to LaTeX.
var entityReplacer = strings.NewReplacer(
	`{\rsquo}`, `'`,
	`{\rdquo}`, `'`,
	`{\amp}`, `\&`,
	`{&#10753;}`, `\oplus`,
	`{\times}`, `$\times$`,
	`{\ndash}`, `--`,
)

// Export header lines that are not part of the list.
var headerMarkers = []string{"Query Results", "Total number selected"}

const (
	itemMarker    = `\item`
	erratumMarker = "Erratum"
)

// Options controls Clean.
type Options struct {
	// Bold lists author strings to wrap in {\bf ...}. Longer forms must come
	// first so a short form never matches inside a longer one.
	Bold []string
}

// BoldForms returns the export spellings of name, longest first:
// "Petigura, E.~A." and "Petigura, E." for Erik A. Petigura.
func BoldForms(name author.Name) []string {
	if name.Last == "" {
		return nil
	}
	initials := initialsOf(name.First)
	if len(initials) == 0 {
		return []string{name.Last}
	}

	var forms []string
	for n := len(initials); n >= 1; n-- {
		parts := make([]string, n)
		for i, r := range initials[:n] {
			parts[i] = string(r) + "."
		}
		forms = append(forms, name.Last+", "+strings.Join(parts, "~"))
	}
	return forms
}

// initialsOf returns the leading letter of each given name. "EA" counts as
// two initials.
func initialsOf(first string) []rune {
	var out []rune
	for _, tok := range strings.FieldsFunc(first, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '~' || r == '-'
	}) {
		runes := []rune(tok)
		if len(runes) <= 3 && allUpper(runes) {
			out = append(out, runes...)
			continue
		}
		out = append(out, unicode.ToUpper(runes[0]))
	}
	return out
}

func allUpper(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// Clean rewrites export lines: entities become LaTeX, the configured author
// is bolded, export headers are dropped, and erratum entries are removed from
// their \item line up to the next \item.
func Clean(lines []string, opts Options) []string {
	var bold *strings.Replacer
	if len(opts.Bold) > 0 {
		pairs := make([]string, 0, 2*len(opts.Bold))
		for _, form := range opts.Bold {
			pairs = append(pairs, form, `{\bf `+form+`}`)
		}
		bold = strings.NewReplacer(pairs...)
	}

	out := make([]string, 0, len(lines))
	entryStart := -1 // index in out of the current entry's \item line
	skipping := false

	for _, line := range lines {
		isItem := strings.Contains(line, itemMarker)
		if skipping {
			if !isItem {
				continue
			}
			skipping = false
		}
		if isHeader(line) {
			continue
		}
		if isItem {
			entryStart = len(out)
		}
		if strings.Contains(line, erratumMarker) {
			if entryStart >= 0 {
				out = out[:entryStart]
			}
			entryStart = -1
			skipping = true
			continue
		}

		line = entityReplacer.Replace(line)
		if bold != nil {
			line = bold.Replace(line)
		}
		out = append(out, line)
	}
	return out
}

func isHeader(line string) bool {
	for _, m := range headerMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// CleanText applies Clean to a whole document, preserving line endings.
func CleanText(text string, opts Options) string {
	if text == "" {
		return ""
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(Clean(lines, opts), "")
}

// Process reads an export from r and writes the cleaned list to w.
func Process(r io.Reader, w io.Writer, opts Options) error {
	var lines []string
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading export: %w", err)
		}
	}

	bw := bufio.NewWriter(w)
	for _, line := range Clean(lines, opts) {
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("writing list: %w", err)
		}
	}
	return bw.Flush()
}

// OutputPath derives the cleaned file name from an export file name by
// replacing "ads" with "tex" in the base name. Names without "ads" get a
// .tex extension instead, so the input is never overwritten.
func OutputPath(input string) string {
	dir, base := filepath.Split(input)
	if strings.Contains(base, "ads") {
		return dir + strings.ReplaceAll(base, "ads", "tex")
	}
	ext := filepath.Ext(base)
	if ext == ".tex" {
		return dir + strings.TrimSuffix(base, ext) + ".clean.tex"
	}
	return dir + strings.TrimSuffix(base, ext) + ".tex"
}
