package source

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/kqxs/models"
)

var (
	selLayout     = cascadia.MustCompile(".js-layout-content")
	selSection    = cascadia.MustCompile(".js-space-item")
	selTitle      = cascadia.MustCompile(".js-header-title")
	selTableRows  = cascadia.MustCompile(".js-table-tbody .js-table-row")
	selTableCells = cascadia.MustCompile(".js-table-cell")
	selGridRow    = cascadia.MustCompile(".js-row")
	selGridCols   = cascadia.MustCompile(".js-col")
	selFirstDiv   = cascadia.MustCompile("div")
)

const (
	spinnerMarker  = "js-spin"
	aggregatorDate = "ket_qua_xo_so"
)

// Aggregator extracts results from the daily aggregator page, which lists
// one section per draw. Sections are picked by title substring.
type Aggregator struct {
	baseURL string
	timeout time.Duration
}

// NewAggregator creates the aggregator extractor. timeout bounds the page
// load, which is slower than the tab default.
func NewAggregator(baseURL string, timeout time.Duration) *Aggregator {
	return &Aggregator{baseURL: baseURL, timeout: timeout}
}

// PageURL returns the aggregator page for the query's day. The aggregator
// always takes an ISO date.
func (a *Aggregator) PageURL(q Query) (string, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeInternal, "invalid aggregator URL", err)
	}
	v := u.Query()
	v.Set(aggregatorDate, q.Date.Format(layoutISO))
	u.RawQuery = v.Encode()
	return u.String(), nil
}

// Extract implements Extractor.
func (a *Aggregator) Extract(ctx context.Context, page Page, q Query) (Result, error) {
	target, err := a.PageURL(q)
	if err != nil {
		return Result{}, err
	}
	if err := page.Navigate(ctx, target, a.timeout); err != nil {
		return Result{}, err
	}

	raw, err := page.HTML(ctx)
	if err != nil {
		return Result{}, err
	}

	fragments, err := ParseAggregator(raw, q.ResultURL)
	if err != nil {
		return Result{}, err
	}
	return Result{Fragments: fragments, Separator: "\n"}, nil
}

// ParseAggregator collects the number cells of every section whose title
// contains title. Within a section the header row is skipped, and cells
// still showing the loading spinner are left out.
func ParseAggregator(raw, title string) ([]string, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse aggregator page", err)
	}

	results := []string{}
	sections := doc.FindMatcher(selLayout).First().FindMatcher(selSection)
	for _, section := range sections.EachIter() {
		heading := ""
		if t := section.FindMatcher(selTitle); t.Length() > 0 {
			heading = innerHTML(t.Nodes[0])
		}
		if !strings.Contains(heading, title) {
			continue
		}

		for i, row := range section.FindMatcher(selTableRows).EachIter() {
			if i == 0 {
				continue
			}
			cells := row.FindMatcher(selTableCells)
			if cells.Length() < 2 {
				continue
			}
			cols := cells.Eq(1).FindMatcher(selGridRow).First().FindMatcher(selGridCols)
			for _, col := range cols.EachIter() {
				text := ""
				if div := col.FindMatcher(selFirstDiv); div.Length() > 0 {
					text = innerHTML(div.Nodes[0])
				}
				if !strings.Contains(text, spinnerMarker) {
					results = append(results, text)
				}
			}
		}
	}
	return results, nil
}
