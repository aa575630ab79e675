package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/kqxs/metrics"
)

const textPlain = "text/plain; charset=utf-8"

// identityKey is where Auth leaves the caller's API key for RateLimit.
const identityKey = "api_key"

// reject ends the request with a plain-text body, matching the result
// routes, and records why.
func reject(c *gin.Context, status int, code, body string) {
	slog.Warn("request rejected",
		"code", code,
		"path", c.FullPath(),
		"client", c.ClientIP(),
	)
	metrics.ObserveRejection(code)
	c.Data(status, textPlain, []byte(body))
	c.Abort()
}
