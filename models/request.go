package models

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// ResultRequest is the payload for POST /api/scrap-result.
type ResultRequest struct {
	// Date is the draw date. Any ISO-8601 style string is accepted. Required.
	Date string `json:"date" binding:"required"`

	// ResultURL identifies the source. Depending on the region flag it is a
	// minhngoc page URL, a title substring of an aggregator section, or a
	// shift name.
	ResultURL string `json:"result_url,omitempty"`

	// Column selects the prize-tier column on multi-province layouts.
	Column string `json:"column" binding:"required,oneof=V1 V2 V3"`

	// IsNight marks an evening draw. Required.
	IsNight *bool `json:"isNight" binding:"required"`

	// IsVn selects the Vietnam providers. Required.
	IsVn *bool `json:"isVn" binding:"required"`

	// OutputFormat controls how extracted fragments are rendered.
	// Allowed: "html" (default), "text", "markdown".
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=html text markdown"`
}

// Defaults applies default values to unset optional fields.
func (r *ResultRequest) Defaults() {
	if r.OutputFormat == "" {
		r.OutputFormat = "html"
	}
}

// ParseDate resolves Date to a point in time. Strings without an explicit
// offset are interpreted in loc; the result is always expressed in loc so
// that its calendar day matches the draw day at the publisher.
func (r *ResultRequest) ParseDate(loc *time.Location) (time.Time, error) {
	t, err := dateparse.ParseIn(r.Date, loc)
	if err != nil {
		return time.Time{}, NewScrapeError(
			ErrCodeInvalidInput,
			fmt.Sprintf("invalid date %q", r.Date),
			err,
		)
	}
	return t.In(loc), nil
}

// Vietnam reports the dereferenced IsVn flag.
func (r *ResultRequest) Vietnam() bool {
	return r.IsVn != nil && *r.IsVn
}

// Night reports the dereferenced IsNight flag.
func (r *ResultRequest) Night() bool {
	return r.IsNight != nil && *r.IsNight
}
