package source

import (
	"context"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/kqxs/models"
)

const (
	shiftDateInput    = `input.form-control[name="date"]`
	shiftSearchButton = "button.btn.btn-default"
	shiftTableBody    = ".table tbody"
)

var (
	selShiftBody  = cascadia.MustCompile(shiftTableBody)
	selShiftRows  = cascadia.MustCompile("tr")
	selShiftCells = cascadia.MustCompile("td")
)

// ShiftTable looks up non-Vietnam draws on the shift-schedule site, whose
// results table has one row per shift.
type ShiftTable struct {
	siteURL string
}

// NewShiftTable creates the shift-table extractor.
func NewShiftTable(siteURL string) *ShiftTable {
	return &ShiftTable{siteURL: siteURL}
}

// Extract implements Extractor. ResultURL carries the shift name.
func (s *ShiftTable) Extract(ctx context.Context, page Page, q Query) (Result, error) {
	if err := page.Navigate(ctx, s.siteURL, 0); err != nil {
		return Result{}, err
	}
	if err := page.WaitElement(ctx, shiftDateInput, 0); err != nil {
		return Result{}, err
	}
	// The shift site takes ISO dates, not DD-MM-YYYY.
	if err := page.Fill(ctx, shiftDateInput, q.Date.Format(layoutISO)); err != nil {
		return Result{}, err
	}
	if err := page.Click(ctx, shiftSearchButton); err != nil {
		return Result{}, err
	}
	if err := page.WaitElement(ctx, shiftTableBody, 0); err != nil {
		return Result{}, err
	}

	raw, err := page.HTML(ctx)
	if err != nil {
		return Result{}, err
	}

	shifts, err := ParseShiftTable(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Fragments: shifts[q.ResultURL], Separator: " "}, nil
}

// ParseShiftTable maps each shift name (first cell of a row) to the rest of
// its row. A repeated shift name keeps only its last row.
func ParseShiftTable(raw string) (map[string][]string, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse shift table", err)
	}

	shifts := make(map[string][]string)
	rows := doc.FindMatcher(selShiftBody).First().FindMatcher(selShiftRows)
	for _, row := range rows.EachIter() {
		cells := row.FindMatcher(selShiftCells)
		if cells.Length() == 0 {
			continue
		}
		name := innerHTML(cells.Nodes[0])
		values := make([]string, 0, cells.Length()-1)
		for _, n := range cells.Nodes[1:] {
			values = append(values, innerHTML(n))
		}
		shifts[name] = values
	}
	return shifts, nil
}
