package source

import (
	"context"
	"strings"
	"time"
)

// Page is the subset of a browser tab the extractors drive. A zero timeout
// means the tab's default operation timeout.
type Page interface {
	// Navigate loads url and waits until the network is idle.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// WaitVisible waits for selector to match a visible element.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// WaitElement waits for selector to match any element.
	WaitElement(ctx context.Context, selector string, timeout time.Duration) error

	// Fill clears the input matching selector and types text into it.
	Fill(ctx context.Context, selector, text string) error

	// Submit types text into the input matching selector, presses Enter and
	// waits for the resulting navigation to go network idle.
	Submit(ctx context.Context, selector, text string, timeout time.Duration) error

	// Click clicks the element matching selector.
	Click(ctx context.Context, selector string) error

	// HTML returns the rendered document.
	HTML(ctx context.Context) (string, error)
}

// Result is an ordered list of extracted fragments and the separator the
// caller joins them with.
type Result struct {
	Fragments []string
	Separator string
}

// String joins the fragments.
func (r Result) String() string {
	return strings.Join(r.Fragments, r.Separator)
}
