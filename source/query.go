package source

import (
	"strings"
	"time"
)

// Date layouts used by the upstream sites.
const (
	layoutDMY = "02-01-2006" // minhngoc page suffix
	layoutISO = "2006-01-02" // aggregator query; the shift-site form also takes ISO, not DD-MM-YYYY
)

// Column is the 1-based prize-tier column on multi-province layouts.
// The zero value selects no column.
type Column int

// ParseColumn maps the request's column label to its index.
// Unknown labels yield 0.
func ParseColumn(label string) Column {
	switch label {
	case "V1":
		return 1
	case "V2":
		return 2
	case "V3":
		return 3
	default:
		return 0
	}
}

// Provider is the upstream a query is routed to.
type Provider int

const (
	// ProviderNone means there is nothing to look up; the result is empty.
	ProviderNone Provider = iota
	// ProviderMinhNgoc pages are reached through the proxy bounce.
	ProviderMinhNgoc
	// ProviderAggregator is searched by date and section title.
	ProviderAggregator
	// ProviderShiftTable serves non-Vietnam draws keyed by shift name.
	ProviderShiftTable
)

func (p Provider) String() string {
	switch p {
	case ProviderMinhNgoc:
		return "minhngoc"
	case ProviderAggregator:
		return "aggregator"
	case ProviderShiftTable:
		return "shift-table"
	default:
		return "none"
	}
}

const (
	minhNgocMarker = "minhngoc"
	northMarker    = "mien-bac"
)

// Query is the immutable, pre-routed form of a result request.
type Query struct {
	Date      time.Time
	ResultURL string
	Column    Column
	Vietnam   bool
	Night     bool

	Provider Provider
	// North is set for minhngoc pages of the northern region, whose layout
	// has a single result column.
	North bool
}

// NewQuery builds a Query and routes it to its provider.
func NewQuery(date time.Time, resultURL, column string, vietnam, night bool) Query {
	q := Query{
		Date:      date,
		ResultURL: resultURL,
		Column:    ParseColumn(column),
		Vietnam:   vietnam,
		Night:     night,
	}
	q.Provider, q.North = DetectProvider(resultURL, vietnam)
	return q
}

// DetectProvider routes a source identifier. An empty shift name can never
// match a row, so it routes to ProviderNone. An empty Vietnam identifier
// goes to the aggregator, where it matches every section.
func DetectProvider(resultURL string, vietnam bool) (Provider, bool) {
	switch {
	case !vietnam && resultURL == "":
		return ProviderNone, false
	case !vietnam:
		return ProviderShiftTable, false
	case strings.Contains(resultURL, minhNgocMarker):
		return ProviderMinhNgoc, strings.Contains(resultURL, northMarker)
	default:
		return ProviderAggregator, false
	}
}
