package source

import (
	"context"
	"log/slog"
)

// urlTextbox is the proxy site's URL input.
const urlTextbox = "#url_textbox"

// Bouncer reaches a page through a URL-forwarding site: it loads the proxy,
// types the target into its URL box and submits with Enter.
type Bouncer struct {
	proxyURL string
}

// NewBouncer creates a Bouncer for the given proxy front page.
func NewBouncer(proxyURL string) *Bouncer {
	return &Bouncer{proxyURL: proxyURL}
}

// Visit leaves page on the proxied rendering of targetURL.
func (b *Bouncer) Visit(ctx context.Context, page Page, targetURL string) error {
	slog.Debug("proxy bounce", "proxy", b.proxyURL, "target", targetURL)

	if err := page.Navigate(ctx, b.proxyURL, 0); err != nil {
		return err
	}
	if err := page.WaitVisible(ctx, urlTextbox, 0); err != nil {
		return err
	}
	return page.Submit(ctx, urlTextbox, targetURL, 0)
}
