package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/kqxs/config"
)

// Extractor drives a page to one provider's result view and extracts it.
type Extractor interface {
	Extract(ctx context.Context, page Page, q Query) (Result, error)
}

// Dispatcher runs exactly one extractor per query, chosen by its provider.
type Dispatcher struct {
	extractors map[Provider]Extractor
}

// NewDispatcher wires the extractors for the configured upstream sites.
func NewDispatcher(sources config.SourcesConfig, scraperCfg config.ScraperConfig) *Dispatcher {
	return NewDispatcherWith(map[Provider]Extractor{
		ProviderMinhNgoc:   NewMinhNgoc(NewBouncer(sources.ProxyURL)),
		ProviderAggregator: NewAggregator(sources.AggregatorURL, scraperCfg.AggregatorTimeout),
		ProviderShiftTable: NewShiftTable(sources.ShiftURL),
	})
}

// NewDispatcherWith creates a Dispatcher over explicit extractors.
func NewDispatcherWith(extractors map[Provider]Extractor) *Dispatcher {
	return &Dispatcher{extractors: extractors}
}

// NeedsBrowser reports whether q is routed to an extractor at all.
func (d *Dispatcher) NeedsBrowser(q Query) bool {
	_, ok := d.extractors[q.Provider]
	return ok
}

// Dispatch runs the extractor for q.Provider. A query with no extractor
// yields an empty result rather than an error.
func (d *Dispatcher) Dispatch(ctx context.Context, page Page, q Query) (Result, error) {
	ext, ok := d.extractors[q.Provider]
	if !ok {
		slog.Debug("no extractor for query", "provider", q.Provider.String(), "result_url", q.ResultURL)
		return Result{Separator: "\n"}, nil
	}

	start := time.Now()
	res, err := ext.Extract(ctx, page, q)
	if err != nil {
		return Result{}, err
	}
	slog.Info("extraction complete",
		"provider", q.Provider.String(),
		"north", q.North,
		"column", int(q.Column),
		"fragments", len(res.Fragments),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
