package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// CSRFOptions configures form token protection.
type CSRFOptions struct {
	Enabled        bool
	Key            []byte
	Secure         bool
	TrustedOrigins []string
}

// CSRF rejects unsafe requests without a valid form token. Over plain HTTP the
// request is marked as such so the origin check does not demand https.
func CSRF(opts CSRFOptions, pages errorPages, logg *logger.Logger) func(http.Handler) http.Handler {
	if !opts.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	failure := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if logg != nil {
			reason := ""
			if err := csrf.FailureReason(r); err != nil {
				reason = err.Error()
			}
			ctx = logg.WithField(ctx, "reason", reason)
		}
		pages.Error(ctx, logg, w, r, pkgerrors.New(pkgerrors.CodeForbidden, "your form has expired, please reload the page and try again"))
	})
	protect := csrf.Protect(opts.Key,
		csrf.Secure(opts.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(opts.TrustedOrigins),
		csrf.ErrorHandler(failure),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if opts.Secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
