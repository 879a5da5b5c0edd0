package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
)

type cartService interface {
	View(ctx context.Context, identity cart.Identity, vendorID uuid.UUID) (*cart.View, error)
	AddItem(ctx context.Context, identity cart.Identity, vendorID, productID uuid.UUID) (*models.CartItem, int, error)
	UpdateQuantity(ctx context.Context, identity cart.Identity, vendorID, itemID uuid.UUID, action enums.CartAction) (*cart.UpdateResult, error)
	RemoveItem(ctx context.Context, identity cart.Identity, vendorID, itemID uuid.UUID) error
	ItemCount(ctx context.Context, identity cart.Identity, vendorID uuid.UUID) (int, error)
	Suggested(ctx context.Context, vendorID uuid.UUID, cart *models.Cart, limit int) ([]models.Product, error)
}

// CartDeps groups what the cart handlers need.
type CartDeps struct {
	Vendors   vendorBySlug
	Carts     cartService
	Sessions  shopperSessions
	View      *responses.View
	Formatter *money.Formatter
	Logger    *logger.Logger
}

func (d CartDeps) formatter() *money.Formatter {
	if d.Formatter == nil {
		return money.NewFormatter("$")
	}
	return d.Formatter
}

// fail answers AJAX callers with a JSON envelope and browsers with an error page.
func (d CartDeps) fail(w http.ResponseWriter, r *http.Request, err error) {
	if validators.IsAJAX(r) {
		responses.WriteError(r.Context(), d.Logger, w, err)
		return
	}
	d.View.Error(r.Context(), d.Logger, w, r, err)
}

func cartPath(slug string) string {
	return "/cart/" + slug
}

type addToCartResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CartCount int    `json:"cart_count"`
	Subtotal  string `json:"subtotal"`
}

type updateCartResponse struct {
	Removed   bool   `json:"removed,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Subtotal  string `json:"subtotal,omitempty"`
	CartCount int    `json:"cart_count"`
}

type cartCountResponse struct {
	CartCount int `json:"cart_count"`
}

// CartView renders the shopper's cart for the storefront with suggestions.
func CartView(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, store, err := storefrontVendor(r, deps.Vendors)
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		r = withStore(r, store)
		ctx := r.Context()

		identity, err := shopperIdentity(w, r, deps.Sessions)
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		view, err := deps.Carts.View(ctx, identity, vendor.ID)
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		suggested, err := deps.Carts.Suggested(ctx, vendor.ID, view.Cart, cart.DefaultSuggestionLimit)
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		deps.View.Page(w, r, http.StatusOK, "cart/view", responses.Data{
			"Title":     "Your cart",
			"Vendor":    vendor,
			"View":      view,
			"Suggested": suggested,
			"CartCount": view.Count,
		})
	}
}

// CartAdd puts one unit of a product in the cart.
func CartAdd(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, store, err := storefrontVendor(r, deps.Vendors)
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		r = withStore(r, store)

		productID, err := validators.URLParamUUID(r, "productID")
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		identity, err := shopperIdentity(w, r, deps.Sessions)
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		item, count, err := deps.Carts.AddItem(r.Context(), identity, vendor.ID, productID)
		if err != nil {
			deps.fail(w, r, err)
			return
		}

		name := ""
		subtotal := decimal.Zero
		if item.Product != nil {
			name = item.Product.Name
			subtotal = item.Subtotal()
		}
		message := fmt.Sprintf("%s added to your cart.", name)
		if validators.IsAJAX(r) {
			responses.WriteJSON(w, http.StatusOK, addToCartResponse{
				Success:   true,
				Message:   message,
				CartCount: count,
				Subtotal:  deps.formatter().Format(subtotal),
			})
			return
		}
		flash(w, r, deps.Sessions, deps.Logger, websession.FlashSuccess, message)
		redirect(w, r, cartPath(vendor.SlugValue()))
	}
}

// CartUpdate increases or decreases an item's quantity. Decreasing from one
// removes the item.
func CartUpdate(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, store, err := storefrontVendor(r, deps.Vendors)
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		r = withStore(r, store)

		itemID, err := validators.URLParamUUID(r, "itemID")
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		if err := validators.ParseForm(w, r); err != nil {
			deps.fail(w, r, err)
			return
		}
		action, err := enums.ParseCartAction(r.PostFormValue("action"))
		if err != nil {
			deps.fail(w, r, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown cart action"))
			return
		}
		identity, err := shopperIdentity(w, r, deps.Sessions)
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		result, err := deps.Carts.UpdateQuantity(r.Context(), identity, vendor.ID, itemID, action)
		if err != nil {
			deps.fail(w, r, err)
			return
		}

		if validators.IsAJAX(r) {
			resp := updateCartResponse{Removed: result.Removed, CartCount: result.CartCount}
			if !result.Removed {
				resp.Quantity = result.Quantity
				resp.Subtotal = deps.formatter().Format(result.Subtotal)
			}
			responses.WriteJSON(w, http.StatusOK, resp)
			return
		}
		if result.Removed {
			flash(w, r, deps.Sessions, deps.Logger, websession.FlashInfo, "Item removed from your cart.")
		}
		redirect(w, r, cartPath(vendor.SlugValue()))
	}
}

// CartRemove deletes an item from the cart.
func CartRemove(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, store, err := storefrontVendor(r, deps.Vendors)
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		r = withStore(r, store)

		itemID, err := validators.URLParamUUID(r, "itemID")
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		identity, err := shopperIdentity(w, r, deps.Sessions)
		if err != nil {
			deps.fail(w, r, err)
			return
		}
		if err := deps.Carts.RemoveItem(r.Context(), identity, vendor.ID, itemID); err != nil {
			deps.fail(w, r, err)
			return
		}

		if validators.IsAJAX(r) {
			responses.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
		flash(w, r, deps.Sessions, deps.Logger, websession.FlashInfo, "Item removed from your cart.")
		redirect(w, r, cartPath(vendor.SlugValue()))
	}
}

// CartCount reports the number of units in the cart without creating one.
func CartCount(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, _, err := storefrontVendor(r, deps.Vendors)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		identity, ok := peekIdentity(r, deps.Sessions)
		if !ok {
			responses.WriteJSON(w, http.StatusOK, cartCountResponse{})
			return
		}
		count, err := deps.Carts.ItemCount(r.Context(), identity, vendor.ID)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, cartCountResponse{CartCount: count})
	}
}
