package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/kqxs/config"
)

type stubExtractor struct {
	name  string
	calls int
}

func (s *stubExtractor) Extract(context.Context, Page, Query) (Result, error) {
	s.calls++
	return Result{Fragments: []string{s.name}, Separator: "\n"}, nil
}

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		name      string
		resultURL string
		vietnam   bool
		want      Provider
		north     bool
	}{
		{"non-vietnam shift", "Evening", false, ProviderShiftTable, false},
		{"non-vietnam ignores markers", "https://minhngoc.net.vn/mien-bac.html", false, ProviderShiftTable, false},
		{"minhngoc north", "https://www.minhngoc.net.vn/ket-qua-xo-so/mien-bac.html", true, ProviderMinhNgoc, true},
		{"minhngoc south", "https://www.minhngoc.net.vn/ket-qua-xo-so/mien-nam.html", true, ProviderMinhNgoc, false},
		{"unknown provider falls through", "https://xoso.example/result.html", true, ProviderAggregator, false},
		{"free text title", "TP. HCM", true, ProviderAggregator, false},
		{"empty vietnam matches every section", "", true, ProviderAggregator, false},
		{"empty non-vietnam", "", false, ProviderNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, north := DetectProvider(tt.resultURL, tt.vietnam)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.north, north)
		})
	}
}

func TestParseColumn(t *testing.T) {
	assert.Equal(t, Column(1), ParseColumn("V1"))
	assert.Equal(t, Column(2), ParseColumn("V2"))
	assert.Equal(t, Column(3), ParseColumn("V3"))
	assert.Equal(t, Column(0), ParseColumn("v1"))
	assert.Equal(t, Column(0), ParseColumn(""))
}

func TestDispatch_RunsExactlyOneExtractor(t *testing.T) {
	minh := &stubExtractor{name: "minhngoc"}
	agg := &stubExtractor{name: "aggregator"}
	shift := &stubExtractor{name: "shift"}
	d := NewDispatcherWith(map[Provider]Extractor{
		ProviderMinhNgoc:   minh,
		ProviderAggregator: agg,
		ProviderShiftTable: shift,
	})

	q := NewQuery(day(2024, 5, 1), "https://www.minhngoc.net.vn/ket-qua-xo-so/mien-nam.html", "V2", true, false)
	res, err := d.Dispatch(context.Background(), &fakePage{}, q)
	require.NoError(t, err)

	assert.Equal(t, "minhngoc", res.String())
	assert.Equal(t, 1, minh.calls)
	assert.Zero(t, agg.calls)
	assert.Zero(t, shift.calls)
}

func TestDispatch_NoProviderIsEmpty(t *testing.T) {
	d := NewDispatcherWith(map[Provider]Extractor{})
	page := &fakePage{}

	q := NewQuery(day(2024, 5, 1), "", "V1", false, false)
	assert.False(t, d.NeedsBrowser(q))

	res, err := d.Dispatch(context.Background(), page, q)
	require.NoError(t, err)
	assert.Equal(t, "", res.String())
	assert.Empty(t, page.calls)
}

func TestNewDispatcher_WiresAllProviders(t *testing.T) {
	d := NewDispatcher(config.Load().Sources, config.Load().Scraper)

	for _, p := range []Provider{ProviderMinhNgoc, ProviderAggregator, ProviderShiftTable} {
		assert.True(t, d.NeedsBrowser(Query{Provider: p}), p.String())
	}
	assert.False(t, d.NeedsBrowser(Query{Provider: ProviderNone}))
}
