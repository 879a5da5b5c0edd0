package controllers

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/tenant"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// vendorSlugParam is the route parameter naming the storefront.
const vendorSlugParam = "vendorSlug"

type vendorBySlug interface {
	GetBySlug(ctx context.Context, slug string) (*models.Vendor, error)
}

// shopperSessions is the cookie state used by storefront handlers.
type shopperSessions interface {
	ShopperToken(w http.ResponseWriter, r *http.Request) (string, error)
	PeekShopperToken(r *http.Request) string
	flasher
}

// storefrontVendor loads the vendor addressed by the {vendorSlug} parameter and
// returns it with its tenant value. On a vendor subdomain the parameter must
// name the same vendor; anything else is not found.
func storefrontVendor(r *http.Request, vendors vendorBySlug) (*models.Vendor, *tenant.Context, error) {
	ctx := r.Context()
	slug := strings.ToLower(strings.TrimSpace(chi.URLParam(r, vendorSlugParam)))
	current := tenant.FromContext(ctx)
	if current != nil {
		if slug == "" {
			slug = current.Slug
		} else if slug != current.Slug {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
	}
	vendor, err := vendors.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	return vendor, tenant.FromVendor(vendor), nil
}

// withStore replaces the tenant on r so the layout links to the storefront even
// on the main domain.
func withStore(r *http.Request, store *tenant.Context) *http.Request {
	return r.WithContext(tenant.WithContext(r.Context(), store))
}

// shopperIdentity returns the cart owner for r: the signed-in account, or the
// anonymous session token, which is issued on first use.
func shopperIdentity(w http.ResponseWriter, r *http.Request, sessions shopperSessions) (cart.Identity, error) {
	if p := auth.PrincipalFromContext(r.Context()); p != nil {
		return cart.ForUser(p.UserID), nil
	}
	token, err := sessions.ShopperToken(w, r)
	if err != nil {
		return cart.Identity{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue shopper session")
	}
	return cart.ForSession(token), nil
}

// peekIdentity is shopperIdentity without issuing a token. ok is false for a
// browser that has never touched a cart.
func peekIdentity(r *http.Request, sessions shopperSessions) (cart.Identity, bool) {
	if p := auth.PrincipalFromContext(r.Context()); p != nil {
		return cart.ForUser(p.UserID), true
	}
	token := sessions.PeekShopperToken(r)
	if token == "" {
		return cart.Identity{}, false
	}
	return cart.ForSession(token), true
}

type flasher interface {
	AddFlash(w http.ResponseWriter, r *http.Request, level, message string) error
}

func flash(w http.ResponseWriter, r *http.Request, sessions flasher, logg *logger.Logger, level, message string) {
	if err := sessions.AddFlash(w, r, level, message); err != nil && logg != nil {
		logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "session.flash_failed")
	}
}

// filterQuery renders encoded filters as a query prefix for pagination links.
func filterQuery(encoded string) template.URL {
	if encoded == "" {
		return ""
	}
	return template.URL(encoded + "&")
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
