// Package report renders a reconciled metrics report as a LaTeX fragment.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/matsen/bibmetrics/internal/reconcile"
	"github.com/matsen/bibmetrics/internal/storage"
)

// DefaultTemplate reproduces the CV metrics line. Field names are those of
// reconcile.Report.
const DefaultTemplate = `{{.LeadPapers}} lead author papers ({{.LeadCitations}} citations),
{{.TotalPapers}} total papers ({{.TotalCitations}} citations).\newline
h-index: {{.HIndex}}, g-index: {{.GIndex}}, i10-index: {{.I10Index}}. Updated \today.`

// DefaultPath is where the fragment is written unless configured otherwise.
const DefaultPath = "sections/publication-metrics.tex"

// Parse compiles a report template. An empty text selects DefaultTemplate.
// Unknown field names fail at execution.
func Parse(text string) (*template.Template, error) {
	if text == "" {
		text = DefaultTemplate
	}
	tmpl, err := template.New("report").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}
	return tmpl, nil
}

// LoadTemplate reads a template file. An empty path selects DefaultTemplate.
func LoadTemplate(path string) (*template.Template, error) {
	if path == "" {
		return Parse("")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report template: %w", err)
	}
	return Parse(strings.TrimRight(string(data), "\n"))
}

// Render writes the report through tmpl. A nil tmpl uses DefaultTemplate.
func Render(w io.Writer, r *reconcile.Report, tmpl *template.Template) error {
	if r == nil {
		return fmt.Errorf("rendering report: nil report")
	}
	if tmpl == nil {
		var err error
		if tmpl, err = Parse(""); err != nil {
			return err
		}
	}
	if err := tmpl.Execute(w, r); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// String renders the report to a string.
func String(r *reconcile.Report, tmpl *template.Template) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, r, tmpl); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile renders the report to path atomically, creating parent
// directories as needed. The previous file survives a failed render.
func WriteFile(path string, r *reconcile.Report, tmpl *template.Template) error {
	var buf bytes.Buffer
	if err := Render(&buf, r, tmpl); err != nil {
		return err
	}
	return storage.WriteFileAtomic(path, func(w io.Writer) error {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		return nil
	})
}
