package middleware

import (
	"sync"
	"time"

	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiters hands out one token bucket per client key.
type ClientLimiters struct {
	mu        sync.Mutex
	qps       rate.Limit
	burst     int
	limiters  map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

func NewClientLimiters(qps float64, burst int) *ClientLimiters {
	if qps <= 0 {
		qps = 10
	}
	if burst <= 0 {
		burst = int(qps) * 2
	}
	return &ClientLimiters{
		qps:      rate.Limit(qps),
		burst:    burst,
		limiters: make(map[string]*clientLimiter),
		now:      time.Now,
	}
}

func (l *ClientLimiters) Get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, cl := range l.limiters {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.qps, l.burst)}
		l.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

func (l *ClientLimiters) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimitMiddleware 按客户端 IP 限流
func RateLimitMiddleware(limiters *ClientLimiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiters == nil {
			c.Next()
			return
		}
		if !limiters.Get(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.Error(apperrors.New(apperrors.ErrRateLimited, "rate limit exceeded", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
