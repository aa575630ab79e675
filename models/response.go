package models

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string       `json:"status"` // "healthy" or "busy"
	Uptime       string       `json:"uptime"`
	SessionStats SessionStats `json:"session_stats"`
	Version      string       `json:"version"`
}

// SessionStats reports the state of the shared browser session.
type SessionStats struct {
	// BrowserLive is true while a browser process is held.
	BrowserLive bool `json:"browser_live"`

	// Leased is true while a request owns the session.
	Leased bool `json:"leased"`

	// Launches counts browser processes started since boot.
	Launches int64 `json:"launches"`

	// Waiting is the number of requests queued for the session.
	Waiting int `json:"waiting"`
}
