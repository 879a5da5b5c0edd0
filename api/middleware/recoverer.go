package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Recoverer turns a panic into a 500. The error page is rendered when pages is
// set, otherwise a JSON envelope is written.
func Recoverer(logg *logger.Logger, pages errorPages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": rec})
						logg.Error(ctx, "panic.recovered", err)
					}
					wrapped := pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic")
					if pages != nil {
						pages.Error(ctx, nil, w, r, wrapped)
						return
					}
					responses.WriteError(ctx, nil, w, wrapped)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
