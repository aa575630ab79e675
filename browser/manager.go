package browser

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/kqxs/config"
	"github.com/use-agent/kqxs/metrics"
	"github.com/use-agent/kqxs/models"
)

// Manager owns the single browser process shared by all requests.
//
// Only one request holds the browser at a time: Acquire takes the slot and
// Lease.Release gives it back after closing the browser, so every request
// gets a freshly launched process and none can close it under another.
// It is safe for concurrent use.
type Manager struct {
	cfg         config.BrowserConfig
	pageTimeout time.Duration

	slot chan struct{}

	mu      sync.Mutex // guards browser
	browser *rod.Browser

	launch   func() (*rod.Browser, error)
	probe    func(*rod.Browser) error
	shutdown func(*rod.Browser) error

	launches atomic.Int64
	waiting  atomic.Int32
}

// NewManager creates a Manager. No browser is launched until the first Acquire.
func NewManager(cfg config.BrowserConfig, pageTimeout time.Duration) *Manager {
	m := &Manager{
		cfg:         cfg,
		pageTimeout: pageTimeout,
		slot:        make(chan struct{}, 1),
		probe: func(b *rod.Browser) error {
			_, err := b.Version()
			return err
		},
		shutdown: func(b *rod.Browser) error {
			return b.Close()
		},
	}
	m.launch = m.launchBrowser
	return m
}

// Acquire waits for the browser slot and returns a lease on a live browser,
// launching one if none is held or the held one no longer answers.
func (m *Manager) Acquire(ctx context.Context) (*Lease, error) {
	m.waiting.Add(1)
	metrics.SessionWaiting.Inc()
	select {
	case m.slot <- struct{}{}:
		m.waiting.Add(-1)
		metrics.SessionWaiting.Dec()
	case <-ctx.Done():
		m.waiting.Add(-1)
		metrics.SessionWaiting.Dec()
		return nil, categorizeError(ctx.Err(), "timed out waiting for the browser session")
	}

	b, err := m.ensureBrowser()
	if err != nil {
		<-m.slot
		return nil, err
	}
	metrics.SessionLeased.Set(1)
	return &Lease{m: m, browser: b}, nil
}

// Stats returns a snapshot of the session state.
func (m *Manager) Stats() models.SessionStats {
	m.mu.Lock()
	live := m.browser != nil
	m.mu.Unlock()

	return models.SessionStats{
		BrowserLive: live,
		Leased:      len(m.slot) > 0,
		Launches:    m.launches.Load(),
		Waiting:     int(m.waiting.Load()),
	}
}

// Close kills any browser still held. Call this on graceful shutdown to
// prevent zombie Chrome processes.
func (m *Manager) Close() {
	slog.Info("session manager shutting down")
	m.closeBrowser()
}

// ensureBrowser returns the held browser if it is alive, otherwise closes
// it best-effort and launches a replacement.
func (m *Manager) ensureBrowser() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		err := m.probe(m.browser)
		if err == nil {
			return m.browser, nil
		}
		slog.Warn("browser session is stale, relaunching", "error", err)
		if closeErr := m.shutdown(m.browser); closeErr != nil {
			slog.Debug("closing stale browser failed", "error", closeErr)
		}
		m.browser = nil
	}

	b, err := m.launch()
	if err != nil {
		return nil, err
	}
	m.browser = b
	m.launches.Add(1)
	metrics.BrowserLaunches.Inc()
	return b, nil
}

// closeBrowser closes and forgets the held browser. Errors are logged only.
func (m *Manager) closeBrowser() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		return
	}
	if err := m.shutdown(m.browser); err != nil {
		slog.Error("error closing browser", "error", err)
	}
	m.browser = nil
}

// launchBrowser starts a Chromium process with the configured profile and
// connects to it.
func (m *Manager) launchBrowser() (*rod.Browser, error) {
	l := launcher.New().
		Headless(m.cfg.Headless).
		NoSandbox(m.cfg.NoSandbox)

	if bin := browserBin(m.cfg); bin != "" {
		l = l.Bin(bin)
	}

	if m.cfg.Production {
		l.Set(flags.Flag("disable-setuid-sandbox"))
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserLaunch,
			"failed to launch browser",
			err,
		)
	}
	slog.Debug("browser launched", "controlURL", controlURL, "production", m.cfg.Production)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserLaunch,
			"failed to connect to browser",
			err,
		)
	}
	return b, nil
}

// browserBin picks the executable: the configured path wins, otherwise a
// system Chromium if one is installed. An empty result lets rod download
// its own revision.
func browserBin(cfg config.BrowserConfig) string {
	if cfg.BrowserBin != "" {
		return cfg.BrowserBin
	}
	if path, found := launcher.LookPath(); found {
		return path
	}
	return ""
}

// Lease is one request's exclusive hold on the browser.
type Lease struct {
	m       *Manager
	browser *rod.Browser
	once    sync.Once
}

// OpenTab opens a fresh tab on the leased browser.
func (l *Lease) OpenTab(ctx context.Context) (*Tab, error) {
	return openTab(ctx, l.browser, l.m.cfg, l.m.pageTimeout)
}

// Release closes the browser unconditionally and frees the slot. Close
// errors are logged, never returned. Calling Release more than once is a
// no-op.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.m.closeBrowser()
		metrics.SessionLeased.Set(0)
		<-l.m.slot
	})
}
