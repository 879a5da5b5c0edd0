package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// FormRateLimitPolicy throttles a form endpoint per client IP and per value of one
// form field (for example the username at signup).
type FormRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	field      string
	fieldLimit int
}

// NewFormRateLimitPolicy builds a policy; a zero limit disables that scope.
func NewFormRateLimitPolicy(name string, window time.Duration, ipLimit int, field string, fieldLimit int) FormRateLimitPolicy {
	return FormRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		field:      strings.TrimSpace(field),
		fieldLimit: fieldLimit,
	}
}

func (p FormRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || (p.field != "" && p.fieldLimit > 0))
}

func (p FormRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "form"
	}
	return p.name
}

func (p FormRateLimitPolicy) ipScope(ip string) string {
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("%s:ip:%s", p.normalizedName(), ip)
}

func (p FormRateLimitPolicy) fieldScope(hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s", p.normalizedName(), p.field, hash)
}

// FormRateLimit enforces the policy on POST requests only, so the form itself
// can always be displayed.
func FormRateLimit(policy FormRateLimitPolicy, store rateLimiterStore, pages errorPages, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 {
				if scope := policy.ipScope(ip); scope != "" {
					allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(policy.ipLimit), policy.window)
					if err != nil {
						pages.Error(ctx, logg, w, r, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						respondRateLimited(ctx, logg, w, r, pages, policy, "ip", ip, count, policy.ipLimit)
						return
					}
				}
			}

			if policy.field != "" && policy.fieldLimit > 0 {
				value := strings.ToLower(strings.TrimSpace(r.PostFormValue(policy.field)))
				if value != "" {
					hash := hashValue(value)
					allowed, count, err := store.FixedWindowAllow(ctx, policy.fieldScope(hash), int64(policy.fieldLimit), policy.window)
					if err != nil {
						pages.Error(ctx, logg, w, r, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						respondRateLimited(ctx, logg, w, r, pages, policy, policy.field, hash, count, policy.fieldLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, r *http.Request, pages errorPages, policy FormRateLimitPolicy, scope, subject string, count int64, limit int) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"subject":        subject,
			"policy":         policy.normalizedName(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "rate_limit.blocked")
	}
	pages.Error(ctx, nil, w, r, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, please try again later"))
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

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
