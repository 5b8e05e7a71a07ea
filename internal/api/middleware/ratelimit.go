package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/portcullis-auth/portcullis/internal/api/response"
)

// RateLimiter keeps a token bucket per remote host. It guards the
// unauthenticated endpoints (sign-up, sign-in, token exchange), where the
// caller has no identity to key on yet.
type RateLimiter struct {
	mu             sync.Mutex
	limiters       map[string]*rate.Limiter
	limitPerMinute int
}

// NewRateLimiter creates a RateLimiter allowing limitPerMinute requests per
// remote host.
func NewRateLimiter(limitPerMinute int) *RateLimiter {
	return &RateLimiter{
		limiters:       make(map[string]*rate.Limiter),
		limitPerMinute: limitPerMinute,
	}
}

func (rl *RateLimiter) limiter(host string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(rl.limitPerMinute)/60, rl.limitPerMinute)
		rl.limiters[host] = limiter
	}
	return limiter
}

// Limit is middleware enforcing the per-host rate limit.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !rl.limiter(host).Allow() {
			response.FailEmpty(w, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
