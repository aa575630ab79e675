package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/kqxs/config"
	"github.com/use-agent/kqxs/models"
	"github.com/use-agent/kqxs/source"
	"github.com/ysmood/gson"
)

var _ source.Page = (*Tab)(nil)

// Tab is a single browser tab. Every operation runs under its own deadline,
// the tab default unless the caller passes a positive timeout.
type Tab struct {
	page    *rod.Page
	router  *rod.HijackRouter
	timeout time.Duration

	// closePage is page.Close, swapped out in tests.
	closePage func() error

	mu     sync.Mutex
	closed bool
}

// openTab creates a tab and installs stealth, extra headers and the
// resource blocker before anything navigates.
func openTab(ctx context.Context, b *rod.Browser, cfg config.BrowserConfig, timeout time.Duration) (*Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, categorizeError(err, "request ended before the tab opened")
	}

	var (
		page *rod.Page
		err  error
	)
	if cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodePageCreate,
			"failed to open a browser tab",
			err,
		)
	}

	if cfg.AcceptLanguage != "" {
		headers := map[string]string{"Accept-Language": cfg.AcceptLanguage}
		if err := (proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}).Call(page); err != nil {
			slog.Debug("setting extra headers failed", "error", err)
		}
	}

	return &Tab{
		page:      page,
		router:    setupHijack(page, cfg.BlockedResourceTypes),
		timeout:   timeout,
		closePage: page.Close,
	}, nil
}

// bind returns the page bound to a deadline derived from ctx.
func (t *Tab) bind(ctx context.Context, timeout time.Duration) (*rod.Page, context.CancelFunc) {
	if timeout <= 0 {
		timeout = t.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return t.page.Context(ctx), cancel
}

// Navigate loads url and waits until the network has been idle.
func (t *Tab) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p, cancel := t.bind(ctx, timeout)
	defer cancel()

	// The lifecycle listener must exist before the navigation starts.
	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := p.Navigate(url); err != nil {
		return categorizeError(err, "navigation to "+url+" failed")
	}
	wait()

	if err := p.GetContext().Err(); err != nil {
		return categorizeError(err, "timed out loading "+url)
	}
	return nil
}

// WaitVisible waits until selector matches a visible element.
func (t *Tab) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	p, cancel := t.bind(ctx, timeout)
	defer cancel()

	el, err := p.Element(selector)
	if err != nil {
		return elementError(err, selector)
	}
	if err := el.WaitVisible(); err != nil {
		return elementError(err, selector)
	}
	return nil
}

// WaitElement waits until selector matches an element in the DOM.
func (t *Tab) WaitElement(ctx context.Context, selector string, timeout time.Duration) error {
	p, cancel := t.bind(ctx, timeout)
	defer cancel()

	if _, err := p.Element(selector); err != nil {
		return elementError(err, selector)
	}
	return nil
}

// Fill replaces the value of the input matched by selector with text.
func (t *Tab) Fill(ctx context.Context, selector, text string) error {
	p, cancel := t.bind(ctx, 0)
	defer cancel()

	el, err := p.Element(selector)
	if err != nil {
		return elementError(err, selector)
	}
	if _, err := el.Eval(`() => { this.value = "" }`); err != nil {
		return categorizeError(err, "clearing "+selector+" failed")
	}
	if err := el.Input(text); err != nil {
		return categorizeError(err, "typing into "+selector+" failed")
	}
	return nil
}

// Submit types text into the input matched by selector, presses Enter and
// waits for the resulting navigation to go idle.
func (t *Tab) Submit(ctx context.Context, selector, text string, timeout time.Duration) error {
	p, cancel := t.bind(ctx, timeout)
	defer cancel()

	el, err := p.Element(selector)
	if err != nil {
		return elementError(err, selector)
	}
	if err := el.Input(text); err != nil {
		return categorizeError(err, "typing into "+selector+" failed")
	}

	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := el.Type(input.Enter); err != nil {
		return categorizeError(err, "submitting "+selector+" failed")
	}
	wait()

	if err := p.GetContext().Err(); err != nil {
		return categorizeError(err, "timed out waiting for the page behind "+selector)
	}
	return nil
}

// Click clicks the element matched by selector.
func (t *Tab) Click(ctx context.Context, selector string) error {
	p, cancel := t.bind(ctx, 0)
	defer cancel()

	el, err := p.Element(selector)
	if err != nil {
		return elementError(err, selector)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return categorizeError(err, "clicking "+selector+" failed")
	}
	return nil
}

// HTML returns the rendered document.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	p, cancel := t.bind(ctx, 0)
	defer cancel()

	raw, err := p.HTML()
	if err != nil {
		return "", categorizeError(err, "failed to read page HTML")
	}
	return raw, nil
}

// Close stops the hijack router and closes the tab. Errors are logged
// only, and repeated calls are no-ops.
func (t *Tab) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true

	if t.router != nil {
		if err := t.router.Stop(); err != nil {
			slog.Debug("stopping hijack router failed", "error", err)
		}
	}
	if err := t.closePage(); err != nil {
		slog.Warn("error closing tab", "error", err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// elementError reports a wait that ran out as a missing element.
func elementError(err error, selector string) *models.ScrapeError {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewScrapeError(
			models.ErrCodeElementNotFound,
			fmt.Sprintf("element %q never appeared", selector),
			err,
		)
	}
	return categorizeError(err, fmt.Sprintf("waiting for %q failed", selector))
}

// categorizeError wraps raw errors into typed ScrapeErrors so callers can
// log the failure class.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
