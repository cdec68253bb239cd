package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yourusername/tik-relay-go/internal/domain"
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks a token bucket per client IP. State is process-local
// and in-memory; stale clients are pruned after ClientTTL.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	config  *domain.RateLimitConfig
}

// NewRateLimiter creates a new per-client rate limiter
func NewRateLimiter(config *domain.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		config:  config,
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, ok := rl.clients[ip]
	if !ok {
		perSecond := rate.Limit(float64(rl.config.RequestsPerMinute) / 60.0)
		client = &rateLimitClient{
			limiter: rate.NewLimiter(perSecond, rl.config.Burst),
		}
		rl.clients[ip] = client
	}
	client.lastSeen = now

	// Prune on the way through rather than on a timer; the map stays small
	// for any realistic caller population.
	for addr, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.config.ClientTTL {
			delete(rl.clients, addr)
		}
	}

	return client.limiter
}

// Middleware returns the gin middleware enforcing the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.config.Enabled {
			c.Next()
			return
		}

		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":    false,
				"error": "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}
