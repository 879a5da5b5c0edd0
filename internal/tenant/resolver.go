// Package tenant maps request hosts to vendor storefronts.
package tenant

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type vendorLookup interface {
	FindBySlug(ctx context.Context, slug string) (*models.Vendor, error)
}

// Resolver turns a host header into a tenant Context.
type Resolver struct {
	vendors    vendorLookup
	baseDomain string
	minLabels  int
}

func NewResolver(vendors vendorLookup, baseDomain string, minLabels int) (*Resolver, error) {
	if vendors == nil {
		return nil, fmt.Errorf("vendor lookup required")
	}
	return &Resolver{vendors: vendors, baseDomain: baseDomain, minLabels: minLabels}, nil
}

// Resolve returns nil for hosts without a vendor subdomain and a not-found
// error when the subdomain does not belong to any vendor.
func (r *Resolver) Resolve(ctx context.Context, host string) (*Context, error) {
	slug, ok := SubdomainFromHost(host, r.baseDomain, r.minLabels)
	if !ok {
		return nil, nil
	}
	vendor, err := r.vendors.FindBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found").
				WithDetails(map[string]any{"slug": slug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve vendor")
	}
	return FromVendor(vendor), nil
}

// FromVendor builds the tenant value for a loaded vendor.
func FromVendor(v *models.Vendor) *Context {
	if v == nil {
		return nil
	}
	return &Context{
		VendorID:       v.ID,
		Slug:           v.SlugValue(),
		StoreName:      v.StoreName,
		WhatsAppNumber: v.WhatsApp(),
	}
}
