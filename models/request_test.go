package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	hcm, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	tests := []struct {
		name string
		date string
		loc  *time.Location
		want string
	}{
		{"plain date", "2024-05-01", hcm, "01-05-2024"},
		{"utc midnight shifts into local day", "2024-05-01T00:00:00Z", hcm, "01-05-2024"},
		{"late utc evening is next local day", "2024-05-01T20:00:00Z", hcm, "02-05-2024"},
		{"utc location", "2024-12-31", time.UTC, "31-12-2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ResultRequest{Date: tt.date}
			got, err := r.ParseDate(tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("02-01-2006"))
			assert.Equal(t, tt.loc, got.Location())
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	r := &ResultRequest{Date: "not a date"}
	_, err := r.ParseDate(time.UTC)
	require.Error(t, err)

	var se *ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ErrCodeInvalidInput, se.Code)
}

func TestFlags(t *testing.T) {
	yes := true
	r := &ResultRequest{IsVn: &yes}
	assert.True(t, r.Vietnam())
	assert.False(t, r.Night())

	r.Defaults()
	assert.Equal(t, "html", r.OutputFormat)
}

func TestErrorCode(t *testing.T) {
	wrapped := NewScrapeError(ErrCodeTimeout, "slow", errors.New("deadline"))
	assert.Equal(t, ErrCodeTimeout, ErrorCode(wrapped))
	assert.Equal(t, ErrCodeInternal, ErrorCode(errors.New("plain")))
	assert.Equal(t, "SCRAPE_TIMEOUT: slow: deadline", wrapped.Error())
}
