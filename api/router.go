package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/kqxs/api/handler"
	"github.com/use-agent/kqxs/api/middleware"
	"github.com/use-agent/kqxs/cache"
	"github.com/use-agent/kqxs/cleaner"
	"github.com/use-agent/kqxs/config"
	"github.com/use-agent/kqxs/metrics"
	"github.com/use-agent/kqxs/models"
)

// Service is what the routes need from the scraper.
type Service interface {
	handler.ResultScraper
	Stats() models.SessionStats
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	Result:  Auth (if enabled) → RateLimit (client bucket, then session queue)
//
// Health and /metrics stay outside auth so monitoring probes always work.
func NewRouter(svc Service, f *cleaner.Formatter, cc *cache.Cache, cfg *config.Config, loc *time.Location, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	// Health and metrics skip auth.
	r.GET("/api/v1/health", handler.Health(svc, startTime))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Protected group: auth then rate limit.
	protected := r.Group("/api")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit, svc))

	result := handler.Result(svc, f, cc, loc)
	protected.POST("/scrap-result", result)
	protected.POST("/v1/result", result)

	return r
}
