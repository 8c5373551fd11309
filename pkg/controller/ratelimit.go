package controller

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ipms/pkg/logger"
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*ipLimiter
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter allows each IP perSecond requests per second on average and
// bursts of up to burst requests.
func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*ipLimiter),
	}
}

// Allow reports whether ip may make a request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// Prune forgets IPs last seen before cutoff and returns how many were removed.
func (l *IPRateLimiter) Prune(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked IPs.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.limiters)
}

// WithRateLimit returns a middleware that answers 429 Too Many Requests once
// the client IP, as found by resolver, has used up its tokens.
func WithRateLimit(limiter *IPRateLimiter, resolver *ClientIPResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolver.ClientIP(r)
			if !limiter.Allow(ip) {
				logger.Warn(r.Context(), "rate limited", zap.String("client_ip", ip))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter(limiter.limit)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"code":"RATE_LIMITED","message":"Too many requests. Please try again later."}`))

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func retryAfter(limit rate.Limit) int {
	if limit <= 0 {
		return 60
	}
	seconds := int(1 / float64(limit))
	if seconds < 1 {
		return 1
	}

	return seconds
}
