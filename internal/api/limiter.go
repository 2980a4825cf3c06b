package api

import (
	"net"
	"net/http"
	"sync"

	"kolbook/internal/config"

	"golang.org/x/time/rate"
)

type rateLimiter struct {
	limiters sync.Map
	cfg      config.RateLimitConfig
}

func newRateLimiter(cfg config.RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		cfg: cfg,
	}
}

// allow checks the per-client bucket. Clients are keyed by bearer token when
// present, remote host otherwise.
func (l *rateLimiter) allow(r *http.Request) bool {
	if l.cfg.RPS <= 0 {
		return true
	}
	return l.getLimiter(clientKey(r)).Allow()
}

func clientKey(r *http.Request) string {
	if token := bearerToken(r); token != "" {
		return token
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}
