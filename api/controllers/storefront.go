package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/tenant"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type catalogReader interface {
	List(ctx context.Context, filters catalog.Filters) (*catalog.Page, error)
	VendorCategories(ctx context.Context, vendorID uuid.UUID) ([]models.Category, error)
	ProductForStorefront(ctx context.Context, store *tenant.Context, productID uuid.UUID) (*catalog.ProductView, error)
}

type cartCounter interface {
	ItemCount(ctx context.Context, identity cart.Identity, vendorID uuid.UUID) (int, error)
}

// StorefrontDeps groups what the public storefront pages need.
type StorefrontDeps struct {
	Vendors  vendorBySlug
	Catalog  catalogReader
	Carts    cartCounter
	Sessions shopperSessions
	View     *responses.View
	Logger   *logger.Logger
}

// cartCount is the badge value for the layout. Failures only hide the badge.
func (d StorefrontDeps) cartCount(r *http.Request, vendorID uuid.UUID) int {
	identity, ok := peekIdentity(r, d.Sessions)
	if !ok {
		return 0
	}
	count, err := d.Carts.ItemCount(r.Context(), identity, vendorID)
	if err != nil {
		if d.Logger != nil {
			d.Logger.Warn(d.Logger.WithField(r.Context(), "error", err.Error()), "cart.count_failed")
		}
		return 0
	}
	return count
}

// Storefront renders a vendor's catalog. AJAX requests get only the product grid.
func Storefront(deps StorefrontDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, store, err := storefrontVendor(r, deps.Vendors)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		r = withStore(r, store)
		ctx := r.Context()

		filters := catalog.ParseFilters(r.URL.Query())
		filters.VendorID = &vendor.ID
		page, err := deps.Catalog.List(ctx, filters)
		if err != nil {
			deps.View.Error(ctx, deps.Logger, w, r, err)
			return
		}

		data := responses.Data{
			"Title":       vendor.StoreName,
			"Vendor":      vendor,
			"Page":        page,
			"Filters":     filters,
			"FilterQuery": filterQuery(filters.Encode().Encode()),
		}
		if validators.IsAJAX(r) {
			deps.View.Fragment(w, r, http.StatusOK, "store/grid", data)
			return
		}

		categories, err := deps.Catalog.VendorCategories(ctx, vendor.ID)
		if err != nil {
			deps.View.Error(ctx, deps.Logger, w, r, err)
			return
		}
		selected := ""
		if filters.CategoryID != nil {
			selected = filters.CategoryID.String()
		}
		data["Categories"] = categories
		data["SelectedCategory"] = selected
		data["Sorts"] = enums.CatalogSorts()
		data["CartCount"] = deps.cartCount(r, vendor.ID)
		deps.View.Page(w, r, http.StatusOK, "store/index", data)
	}
}

// ProductDetail renders one active product of the storefront.
func ProductDetail(deps StorefrontDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, store, err := storefrontVendor(r, deps.Vendors)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		r = withStore(r, store)

		productID, err := validators.URLParamUUID(r, "productID")
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		product, err := deps.Catalog.ProductForStorefront(r.Context(), store, productID)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		deps.View.Page(w, r, http.StatusOK, "store/product", responses.Data{
			"Title":     product.Product.Name,
			"Vendor":    vendor,
			"Product":   product,
			"CartCount": deps.cartCount(r, vendor.ID),
		})
	}
}
