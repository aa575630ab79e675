package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/kqxs/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// StatsSource reports the browser session state.
type StatsSource interface {
	Stats() models.SessionStats
}

// Health returns a handler for GET /api/v1/health.
//
// Reports "busy" while a request holds the browser and others are queued.
func Health(ss StatsSource, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := ss.Stats()

		status := "healthy"
		if stats.Leased && stats.Waiting > 0 {
			status = "busy"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       status,
			Uptime:       time.Since(startTime).Round(time.Second).String(),
			SessionStats: stats,
			Version:      Version,
		})
	}
}
