package api

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/quillpress/quillpress-server/internal/http/response"
	"github.com/quillpress/quillpress-server/internal/ratelimit"
)

// RateLimiter is the keyed limiter used for per-IP throttling.
type RateLimiter = ratelimit.KeyedRateLimiter

// RateLimitMiddleware rejects requests over the limit with 429, keyed by client IP.
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				response.TooManyRequests(w, "Too many requests. Please try again later.", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the host part of RemoteAddr. Forwarding headers are only
// honored when RealIP runs ahead of this, which requires Options.TrustProxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
