package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/taptune/taptune-backend/api/responses"
	"github.com/taptune/taptune-backend/pkg/config"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/redis"
)

// PublicRateLimit throttles an unauthenticated surface per client IP. The
// limiter is fail-open when DisableOnFailure is set so a Redis outage does
// not take the public endpoints down with it.
func PublicRateLimit(scope string, ipLimit int, cfg config.RateLimitConfig, limiter redis.Limiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || ipLimit <= 0 || cfg.PublicWindow <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			allowed, count, err := limiter.FixedWindowAllow(ctx, scope+":"+ip, int64(ipLimit), cfg.PublicWindow)
			if err != nil {
				if cfg.DisableOnFailure {
					if logg != nil {
						logg.Error(ctx, "rate limiter unavailable, admitting request", err)
					}
					next.ServeHTTP(w, r)
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"scope":    scope,
						"ip":       ip,
						"attempts": count,
						"limit":    ipLimit,
					})
					logg.Warn(logCtx, "public.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
