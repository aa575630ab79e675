package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/kqxs/config"
	"github.com/use-agent/kqxs/models"
	"golang.org/x/time/rate"
)

const (
	tooManyBody = "Too many requests"
	busyBody    = "Busy"

	// idleClientTTL is how long an unused client bucket is kept.
	idleClientTTL = time.Hour
)

// QueueStats reports the browser session state admission is based on.
type QueueStats interface {
	Stats() models.SessionStats
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets holds one token bucket per API key or client IP.
type buckets struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*clientBucket
	swept   time.Time
}

func (b *buckets) allow(identity string, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.swept) > idleClientTTL {
		for id, cb := range b.clients {
			if now.Sub(cb.lastSeen) > idleClientTTL {
				delete(b.clients, id)
			}
		}
		b.swept = now
	}

	cb, ok := b.clients[identity]
	if !ok {
		cb = &clientBucket{limiter: rate.NewLimiter(b.limit, b.burst)}
		b.clients[identity] = cb
	}
	cb.lastSeen = now
	return cb.limiter.AllowN(now, 1)
}

// RateLimit admits result requests in two steps. Each API key (or client IP
// when auth is off) has its own token bucket, answered with 429 when empty.
// A request arriving while cfg.MaxWaiting others already queue for the
// browser session gets 503 and a Retry-After instead of joining them.
func RateLimit(cfg config.RateLimitConfig, queue QueueStats) gin.HandlerFunc {
	var perClient *buckets
	if cfg.RequestsPerSecond > 0 {
		perClient = &buckets{
			limit:   rate.Limit(cfg.RequestsPerSecond),
			burst:   max(cfg.Burst, 1),
			clients: make(map[string]*clientBucket),
			swept:   time.Now(),
		}
	}

	return func(c *gin.Context) {
		if perClient != nil {
			identity := c.GetString(identityKey)
			if identity == "" {
				identity = c.ClientIP()
			}
			if !perClient.allow(identity, time.Now()) {
				reject(c, http.StatusTooManyRequests, models.ErrCodeRateLimited, tooManyBody)
				return
			}
		}

		if cfg.MaxWaiting > 0 && queue != nil && queue.Stats().Waiting >= cfg.MaxWaiting {
			if cfg.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(cfg.RetryAfter.Seconds())))
			}
			reject(c, http.StatusServiceUnavailable, models.ErrCodeSessionBusy, busyBody)
			return
		}

		c.Next()
	}
}
