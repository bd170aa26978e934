package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/api/responses"
	pkgerrors "github.com/agroconnect-tz/agroconnect-backend/pkg/errors"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/logger"
	"golang.org/x/time/rate"
)

const visitorIdleTTL = 10 * time.Minute

// RateLimitPolicy names a per-IP token bucket configuration.
type RateLimitPolicy struct {
	Name   string
	PerSec rate.Limit
	Burst  int
}

// NewRateLimitPolicy builds a policy, clamping nonsense values.
func NewRateLimitPolicy(name string, perSecond float64, burst int) RateLimitPolicy {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return RateLimitPolicy{Name: name, PerSec: rate.Limit(perSecond), Burst: burst}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitorTable struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	policy   RateLimitPolicy
}

func (t *visitorTable) limiterFor(ip string, now time.Time) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.visitors[ip]; ok {
		v.lastSeen = now
		return v.limiter
	}

	// Opportunistic sweep of idle entries keeps the table bounded without
	// a background goroutine.
	for key, v := range t.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(t.visitors, key)
		}
	}

	limiter := rate.NewLimiter(t.policy.PerSec, t.policy.Burst)
	t.visitors[ip] = &visitor{limiter: limiter, lastSeen: now}
	return limiter
}

// RateLimit enforces the policy per client IP with in-memory token buckets.
func RateLimit(policy RateLimitPolicy, logg *logger.Logger) func(http.Handler) http.Handler {
	table := &visitorTable{
		visitors: make(map[string]*visitor),
		policy:   policy,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !table.limiterFor(ip, time.Now()).Allow() {
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"policy": policy.Name,
						"ip":     ip,
					})
					logg.Warn(ctx, "rate limit exceeded")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests, slow down"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
