package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/tenant"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
)

type cartViewer interface {
	View(ctx context.Context, identity cart.Identity, vendorID uuid.UUID) (*cart.View, error)
}

type checkoutService interface {
	PlaceOrder(ctx context.Context, identity cart.Identity, store *tenant.Context, input checkout.CustomerInput, channel enums.OrderChannel) (*models.Order, error)
	WhatsAppLink(store *tenant.Context, order *models.Order) (string, error)
}

// CheckoutDeps groups what the checkout handlers need.
type CheckoutDeps struct {
	Vendors  vendorBySlug
	Carts    cartViewer
	Checkout checkoutService
	Sessions shopperSessions
	View     *responses.View
	Logger   *logger.Logger
}

type checkoutForm struct {
	Name    string `form:"name" validate:"required,max=200"`
	Phone   string `form:"phone" validate:"required,max=20"`
	Address string `form:"address" validate:"required"`
	Email   string `form:"email" validate:"omitempty,email,max=254"`
	Notes   string `form:"notes" validate:"max=2000"`
}

func readCheckoutForm(r *http.Request) checkoutForm {
	return checkoutForm{
		Name:    validators.FormString(r, "name", 0),
		Phone:   validators.FormString(r, "phone", 0),
		Address: validators.FormString(r, "address", 0),
		Email:   validators.FormString(r, "email", 0),
		Notes:   validators.FormString(r, "notes", 0),
	}
}

func (f checkoutForm) input() checkout.CustomerInput {
	return checkout.CustomerInput{
		Name:    f.Name,
		Phone:   f.Phone,
		Address: f.Address,
		Email:   f.Email,
		Notes:   f.Notes,
	}
}

func (d CheckoutDeps) emptyCart(w http.ResponseWriter, r *http.Request, vendor *models.Vendor) {
	flash(w, r, d.Sessions, d.Logger, websession.FlashInfo, "Your cart is empty.")
	redirect(w, r, cartPath(vendor.SlugValue()))
}

func (d CheckoutDeps) renderForm(w http.ResponseWriter, r *http.Request, status int, vendor *models.Vendor, view *cart.View, form checkoutForm, errs map[string]string) {
	d.View.Page(w, r, status, "cart/checkout", responses.Data{
		"Title":     "Checkout",
		"Vendor":    vendor,
		"View":      view,
		"Form":      form,
		"Errors":    errs,
		"CartCount": view.Count,
	})
}

// CheckoutForm shows the contact form for a non-empty cart.
func CheckoutForm(deps CheckoutDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, store, err := storefrontVendor(r, deps.Vendors)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		r = withStore(r, store)

		identity, ok := peekIdentity(r, deps.Sessions)
		if !ok {
			deps.emptyCart(w, r, vendor)
			return
		}
		view, err := deps.Carts.View(r.Context(), identity, vendor.ID)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		if len(view.Items) == 0 {
			deps.emptyCart(w, r, vendor)
			return
		}
		deps.renderForm(w, r, http.StatusOK, vendor, view, checkoutForm{}, nil)
	}
}

// CheckoutSubmit places the order and renders the confirmation page.
func CheckoutSubmit(deps CheckoutDeps) http.HandlerFunc {
	return placeOrder(deps, enums.OrderChannelStorefront)
}

// CheckoutWhatsApp places the order and sends the shopper to the vendor's
// WhatsApp chat with the order pre-filled.
func CheckoutWhatsApp(deps CheckoutDeps) http.HandlerFunc {
	return placeOrder(deps, enums.OrderChannelWhatsApp)
}

func placeOrder(deps CheckoutDeps, channel enums.OrderChannel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, store, err := storefrontVendor(r, deps.Vendors)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		r = withStore(r, store)
		ctx := r.Context()

		if err := validators.ParseForm(w, r); err != nil {
			deps.View.Error(ctx, deps.Logger, w, r, err)
			return
		}
		identity, ok := peekIdentity(r, deps.Sessions)
		if !ok {
			deps.emptyCart(w, r, vendor)
			return
		}

		form := readCheckoutForm(r)
		if err := validators.Struct(&form); err != nil {
			view, viewErr := deps.Carts.View(ctx, identity, vendor.ID)
			if viewErr != nil {
				deps.View.Error(ctx, deps.Logger, w, r, viewErr)
				return
			}
			if len(view.Items) == 0 {
				deps.emptyCart(w, r, vendor)
				return
			}
			deps.renderForm(w, r, http.StatusBadRequest, vendor, view, form, validators.FieldErrors(err))
			return
		}

		order, err := deps.Checkout.PlaceOrder(ctx, identity, store, form.input(), channel)
		if err != nil {
			if checkout.IsEmptyCart(err) {
				deps.emptyCart(w, r, vendor)
				return
			}
			deps.View.Error(ctx, deps.Logger, w, r, err)
			return
		}
		if deps.Logger != nil {
			deps.Logger.Info(deps.Logger.WithFields(ctx, map[string]any{
				"order_id":    order.ID.String(),
				"channel":     string(channel),
				"total_cents": order.TotalCents,
			}), "checkout.order_placed")
		}

		if channel == enums.OrderChannelWhatsApp {
			link, err := deps.Checkout.WhatsAppLink(store, order)
			if err != nil {
				deps.View.Error(ctx, deps.Logger, w, r, err)
				return
			}
			http.Redirect(w, r, link, http.StatusSeeOther)
			return
		}

		deps.View.Page(w, r, http.StatusOK, "cart/confirmation", responses.Data{
			"Title":  "Order received",
			"Vendor": vendor,
			"Order":  order,
		})
	}
}
