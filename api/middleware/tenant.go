package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/internal/tenant"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

type tenantResolver interface {
	Resolve(ctx context.Context, host string) (*tenant.Context, error)
}

type tenantRecorder interface {
	IncTenantResolution(outcome string)
}

// Tenant resolves the vendor addressed by the request host. Requests to a vendor
// subdomain root are redirected to the storefront, unknown subdomains end with a
// 404 page and bare hosts pass through without a tenant.
func Tenant(resolver tenantResolver, rec tenantRecorder, pages errorPages, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if resolver == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			store, err := resolver.Resolve(ctx, r.Host)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					record(rec, metrics.TenantUnknown)
				}
				pages.Error(ctx, logg, w, r, err)
				return
			}
			if store == nil {
				record(rec, metrics.TenantBare)
				next.ServeHTTP(w, r)
				return
			}
			record(rec, metrics.TenantResolved)

			if r.URL.Path == "" || r.URL.Path == "/" {
				http.Redirect(w, r, "/store/"+store.Slug, http.StatusFound)
				return
			}

			ctx = tenant.WithContext(ctx, store)
			if logg != nil {
				ctx = logg.WithVendor(ctx, store.VendorID.String(), store.Slug)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func record(rec tenantRecorder, outcome string) {
	if rec != nil {
		rec.IncTenantResolution(outcome)
	}
}
