// Package ratelimit limits requests per client IP in fixed windows.
package ratelimit

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/mohamedhussein2626/backend-part/internal/logging"
)

// Counter increments the hit count of key and reports the new value. The
// count must reset once window has passed since the first hit.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type Limiter struct {
	counter Counter
	limit   int
	window  time.Duration
	log     logging.Logger
	now     func() time.Time
}

// New builds a limiter allowing limit requests per window. A nil counter
// disables limiting.
func New(counter Counter, limit int, window time.Duration, log logging.Logger) *Limiter {
	return &Limiter{counter: counter, limit: limit, window: window, log: log, now: time.Now}
}

// Middleware rejects clients over the limit with 429. Counter failures let
// the request through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if l == nil || l.counter == nil || l.limit <= 0 || l.window <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.key(clientIP(r))

		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		n, err := l.counter.Incr(ctx, key, l.window)
		cancel()
		if err != nil {
			l.log.Warn(r.Context(), "rate limit counter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		remaining := int64(l.limit) - n
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > int64(l.limit) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window/time.Second)))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "Too many requests",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// key names the counter for ip in the current window.
func (l *Limiter) key(ip string) string {
	bucket := l.now().UnixNano() / int64(l.window)
	return "ratelimit:" + ip + ":" + strconv.FormatInt(bucket, 10)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
