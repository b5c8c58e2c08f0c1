package http

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/myhome/myhome-service/pkg/util/errorutil"
)

const limiterIdleTTL = time.Hour

// IPRateLimiter hands out one token bucket per client IP. It guards the unauthenticated
// credential endpoints against brute force.
type IPRateLimiter struct {
	limiters sync.Map // client IP -> *limiterEntry
	limit    rate.Limit
	burst    int
	logger   *zap.Logger
	now      func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// NewIPRateLimiter builds a limiter allowing rps requests per second with the given burst.
func NewIPRateLimiter(rps float64, burst int, logger *zap.Logger) *IPRateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{limit: rate.Limit(rps), burst: burst, logger: logger, now: time.Now}
}

// Handler rejects requests over the per-IP budget with 429 and a Retry-After header.
func (l *IPRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		limiter := l.limiterFor(ip)

		reservation := limiter.ReserveN(l.now(), 1)
		if delay := reservation.DelayFrom(l.now()); delay > 0 {
			reservation.CancelAt(l.now())
			retryAfter := int(delay.Round(time.Second).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			l.logger.Debug("rate limit exceeded", zap.String("client_ip", ip), zap.Int("retry_after", retryAfter))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return apperrors.NewTooManyRequests("too many requests, retry later")
		}
		return c.Next()
	}
}

func (l *IPRateLimiter) limiterFor(ip string) *rate.Limiter {
	now := l.now()
	val, _ := l.limiters.LoadOrStore(ip, &limiterEntry{
		limiter:    rate.NewLimiter(l.limit, l.burst),
		lastAccess: now,
	})
	entry := val.(*limiterEntry)
	entry.mu.Lock()
	entry.lastAccess = now
	entry.mu.Unlock()
	return entry.limiter
}

// Run evicts limiters idle for longer than an hour until ctx is cancelled.
func (l *IPRateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

func (l *IPRateLimiter) evictIdle() {
	threshold := l.now().Add(-limiterIdleTTL)
	l.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()
		if stale {
			l.limiters.Delete(key)
		}
		return true
	})
}
