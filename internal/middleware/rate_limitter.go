package middleware

import (
	"net/http"
	"sync"
	"time"

	"TumorDetector/pkg/response"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const (
	ClientIPKey = "client_ip"

	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

var (
	ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "too many requests")
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	bucket    map[string]*limiterEntry
	rate      rate.Limit
	burstSize int
	mutex     sync.Mutex
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*limiterEntry),
		rate:      reqRate,
		burstSize: burstSize,
		now:       time.Now,
	}
}

// allow spends one token from the IP's bucket. Buckets idle for longer than
// limiterIdleTTL are dropped; a returning client starts with a full burst.
func (r *rateLimiter) allow(ip string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= limiterSweepInterval {
		for key, entry := range r.bucket {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(r.bucket, key)
			}
		}
		r.lastSweep = now
	}

	entry, exist := r.bucket[ip]
	if !exist {
		entry = &limiterEntry{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[ip] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

func (r *rateLimiter) size() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.bucket)
}

// Allow reports whether ip may make one more prediction call. Websocket frames
// use it directly since they bypass the HTTP route middleware.
func (m *middleware) Allow(ip string) bool {
	if m.rateLimitter.allow(ip) {
		return true
	}
	m.log.Warnf("too many requests for IP %s", ip)
	return false
}

// NewRateLimiter guards the prediction routes, each of which costs one call to the model service.
func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	if !m.Allow(ctx.IP()) {
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": ErrTooManyRequests.Error(),
		})
	}

	return ctx.Next()
}
