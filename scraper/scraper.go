package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/kqxs/browser"
	"github.com/use-agent/kqxs/config"
	"github.com/use-agent/kqxs/metrics"
	"github.com/use-agent/kqxs/models"
	"github.com/use-agent/kqxs/source"
)

// Tab is an open browser tab.
type Tab interface {
	source.Page
	Close()
}

// Lease is exclusive use of the browser for one request.
type Lease interface {
	OpenTab(ctx context.Context) (Tab, error)
	Release()
}

// Sessions hands out browser leases.
type Sessions interface {
	Acquire(ctx context.Context) (Lease, error)
	Stats() models.SessionStats
}

// Scraper resolves one query against the browser session.
// It is safe for concurrent use; requests are serialised on the session.
type Scraper struct {
	sessions       Sessions
	dispatcher     *source.Dispatcher
	acquireTimeout time.Duration
}

// New creates a Scraper backed by a browser.Manager.
func New(m *browser.Manager, d *source.Dispatcher, cfg config.ScraperConfig) *Scraper {
	return NewWithSessions(managerSessions{m: m}, d, cfg.AcquireTimeout)
}

// NewWithSessions creates a Scraper over any Sessions implementation.
func NewWithSessions(sessions Sessions, d *source.Dispatcher, acquireTimeout time.Duration) *Scraper {
	return &Scraper{
		sessions:       sessions,
		dispatcher:     d,
		acquireTimeout: acquireTimeout,
	}
}

// Scrape runs the extractor selected by q.Provider in a fresh tab.
//
// Lifecycle:
//
//  1. No provider          – empty result, no browser touched
//  2. Acquire              – wait for the single browser slot
//  3. DEFER: release       – browser closed, slot freed
//  4. Open tab
//  5. DEFER: close tab     – runs before the release
//  6. Dispatch             – exactly one extractor
//
// Teardown errors are logged by the session layer and never replace the
// extraction error.
func (s *Scraper) Scrape(ctx context.Context, q source.Query) (res source.Result, err error) {
	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = models.ErrorCode(err)
		}
		metrics.ObserveScrape(q.Provider.String(), outcome, time.Since(start))
	}()

	// ── 1. Nothing to fetch ─────────────────────────────────────────
	if !s.dispatcher.NeedsBrowser(q) {
		return s.dispatcher.Dispatch(ctx, nil, q)
	}

	// ── 2. Acquire the browser ──────────────────────────────────────
	acquireCtx := ctx
	if s.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, s.acquireTimeout)
		defer cancel()
	}
	lease, err := s.sessions.Acquire(acquireCtx)
	if err != nil {
		return source.Result{}, err
	}

	// ── 3. Release on every exit path ───────────────────────────────
	defer lease.Release()

	// ── 4. Fresh tab ────────────────────────────────────────────────
	tab, err := lease.OpenTab(ctx)
	if err != nil {
		return source.Result{}, err
	}

	// ── 5. Close the tab first ──────────────────────────────────────
	defer tab.Close()

	// ── 6. Extract ──────────────────────────────────────────────────
	res, err = s.dispatcher.Dispatch(ctx, tab, q)
	if err != nil {
		slog.Warn("extraction failed",
			"provider", q.Provider.String(),
			"result_url", q.ResultURL,
			"code", models.ErrorCode(err),
			"error", err,
		)
		return source.Result{}, err
	}
	return res, nil
}

// Stats returns a snapshot of the browser session.
func (s *Scraper) Stats() models.SessionStats {
	return s.sessions.Stats()
}
