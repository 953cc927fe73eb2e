// Package scholar crawls public Google Scholar profiles for per-work citation counts.
package scholar

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/matsen/bibmetrics/internal/metrics"
)

var digitsRe = regexp.MustCompile(`\d+`)

// Page is one page of a parsed profile.
type Page struct {
	Name  string
	Works []metrics.Work
}

// ParseProfilePage extracts the works table from a profile page.
func ParseProfilePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if doc.Find("#gs_captcha_f, #captcha-form").Length() > 0 {
		return nil, ErrBlocked
	}
	if doc.Find("#gsc_a_t").Length() == 0 && doc.Find(".gsc_a_tr").Length() == 0 {
		return nil, fmt.Errorf("%w: works table missing", ErrInvalidResponse)
	}

	page := &Page{Name: strings.TrimSpace(doc.Find("#gsc_prf_in").First().Text())}

	doc.Find(".gsc_a_tr").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(".gsc_a_at").First().Text())
		if title == "" {
			// "There are no articles in this profile." placeholder row
			return
		}

		w := metrics.Work{
			Title:   title,
			Authors: SplitAuthors(s.Find(".gs_gray").First().Text()),
		}

		if year := digitsRe.FindString(s.Find(".gsc_a_y").Text()); year != "" {
			w.Year, _ = strconv.Atoi(year)
		}

		// An empty cell means zero citations; anything else must carry a number.
		cites := strings.TrimSpace(s.Find(".gsc_a_ac").First().Text())
		if cites != "" {
			if n := digitsRe.FindString(cites); n != "" {
				w.Citations, _ = strconv.Atoi(n)
			} else {
				w.Partial = true
			}
		}

		page.Works = append(page.Works, w)
	})

	return page, nil
}

// SplitAuthors splits Scholar's comma-separated author list. Truncation
// markers are kept so position resolution can skip them.
func SplitAuthors(list string) []string {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}
