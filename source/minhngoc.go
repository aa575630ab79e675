package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/kqxs/models"
)

var (
	selResultBox  = cascadia.MustCompile(".box_kqxs")
	selPrizeCells = cascadia.MustCompile(`td[class^="giai"] div`)
)

// MinhNgoc extracts prize tiers from minhngoc result pages, which are only
// reachable through the proxy bounce.
type MinhNgoc struct {
	bouncer *Bouncer
}

// NewMinhNgoc creates the minhngoc extractor.
func NewMinhNgoc(bouncer *Bouncer) *MinhNgoc {
	return &MinhNgoc{bouncer: bouncer}
}

// TargetURL builds the dated page URL: the first ".html" is dropped from the
// listing URL and "/DD-MM-YYYY.html" appended.
func (m *MinhNgoc) TargetURL(q Query) string {
	base := strings.Replace(q.ResultURL, ".html", "", 1)
	return fmt.Sprintf("%s/%s.html", base, q.Date.Format(layoutDMY))
}

// Extract implements Extractor.
func (m *MinhNgoc) Extract(ctx context.Context, page Page, q Query) (Result, error) {
	if err := m.bouncer.Visit(ctx, page, m.TargetURL(q)); err != nil {
		return Result{}, err
	}

	raw, err := page.HTML(ctx)
	if err != nil {
		return Result{}, err
	}

	var fragments []string
	if q.North {
		fragments, err = ParseMinhNgocNorth(raw)
	} else {
		fragments, err = ParseMinhNgocColumn(raw, q.Column)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Fragments: fragments, Separator: "\n"}, nil
}

// ParseMinhNgocNorth returns every prize-tier cell of the northern layout.
// The northern page has a single result column, so no column is selected.
func ParseMinhNgocNorth(raw string) ([]string, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse result page", err)
	}
	box := doc.FindMatcher(selResultBox).First()
	return innerHTMLs(box.FindMatcher(selPrizeCells)), nil
}

// ParseMinhNgocColumn returns the prize-tier cells of one province column of
// the multi-province layout. Column 0 selects nothing.
func ParseMinhNgocColumn(raw string, col Column) ([]string, error) {
	if col <= 0 {
		return []string{}, nil
	}

	doc, err := parseDocument(raw)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse result page", err)
	}

	colSel, err := cascadia.Compile(fmt.Sprintf(".content td:nth-of-type(2) td:nth-of-type(%d)", col))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "invalid column selector", err)
	}

	box := doc.FindMatcher(selResultBox).First()
	column := box.FindMatcher(colSel).First()
	return innerHTMLs(column.FindMatcher(selPrizeCells)), nil
}
