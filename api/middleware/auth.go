package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/angelmondragon/storefront-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// LoginPath is where unauthenticated dashboard requests are sent.
const LoginPath = "/vendors/login"

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

type accessTokenStore interface {
	AccessToken(r *http.Request) string
	ClearAccessToken(w http.ResponseWriter, r *http.Request) error
}

// VendorSession attaches the signed-in vendor to the request when the session
// cookie carries a live access token. Anonymous requests pass through untouched.
func VendorSession(authn authenticator, tokens accessTokenStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokens.AccessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			principal, err := authn.Authenticate(ctx, token)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
					_ = tokens.ClearAccessToken(w, r)
				} else if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "auth.session_check_failed")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx = auth.WithPrincipal(ctx, principal)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":   principal.UserID.String(),
					"vendor_id": principal.VendorID.String(),
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireVendor redirects anonymous requests to the login form, keeping the
// original path in "next".
func RequireVendor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.PrincipalFromContext(r.Context()) == nil {
			target := LoginPath + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
