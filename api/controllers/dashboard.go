package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/categories"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/tenant"
	"github.com/angelmondragon/storefront-backend/internal/vendors"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
)

// recentOrdersLimit is how many orders the dashboard home shows.
const recentOrdersLimit = 5

type vendorAccount interface {
	EnsureSlug(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	UpdateProfile(ctx context.Context, vendorID uuid.UUID, input vendors.ProfileInput) (*models.Vendor, error)
}

type productManager interface {
	Create(ctx context.Context, vendorID uuid.UUID, input product.Input) (*models.Product, error)
	Update(ctx context.Context, vendorID, productID uuid.UUID, input product.Input) (*models.Product, error)
	Delete(ctx context.Context, vendorID, productID uuid.UUID) error
	Get(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID, query product.ListQuery) (*product.ListResult, error)
}

type categoryLister interface {
	List(ctx context.Context) ([]categories.Node, error)
}

type orderManager interface {
	ListForVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error)
	GetForVendor(ctx context.Context, vendorID, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, vendorID, orderID uuid.UUID, status string) (*models.Order, error)
}

// DashboardDeps groups what the vendor dashboard handlers need. Every handler
// runs behind RequireVendor and acts on the signed-in vendor only.
type DashboardDeps struct {
	Vendors    vendorAccount
	Products   productManager
	Categories categoryLister
	Orders     orderManager
	Sessions   flasher
	View       *responses.View
	Logger     *logger.Logger
}

// currentVendor loads the signed-in vendor and exposes it as the tenant so the
// layout links to the vendor's own storefront.
func (d DashboardDeps) currentVendor(r *http.Request) (*models.Vendor, *http.Request, error) {
	p := auth.PrincipalFromContext(r.Context())
	if p == nil {
		return nil, r, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	vendor, err := d.Vendors.GetByID(r.Context(), p.VendorID)
	if err != nil {
		return nil, r, err
	}
	if vendor.Slug != nil {
		r = withStore(r, tenant.FromVendor(vendor))
	}
	return vendor, r, nil
}

// Dashboard is the vendor home. A vendor without a slug gets one assigned here.
func Dashboard(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.PrincipalFromContext(r.Context())
		if p == nil {
			redirect(w, r, loginPath)
			return
		}
		ctx := r.Context()

		vendor, assigned, err := deps.Vendors.EnsureSlug(ctx, p.VendorID)
		if err != nil {
			deps.View.Error(ctx, deps.Logger, w, r, err)
			return
		}
		r = withStore(r, tenant.FromVendor(vendor))
		if assigned {
			if deps.Logger != nil {
				deps.Logger.Info(deps.Logger.WithVendor(ctx, vendor.ID.String(), vendor.SlugValue()), "vendor.slug_assigned")
			}
			flash(w, r, deps.Sessions, deps.Logger, websession.FlashInfo, fmt.Sprintf("Your store address is /store/%s.", vendor.SlugValue()))
		}

		products, err := deps.Products.ListForVendor(ctx, vendor.ID, product.ListQuery{Page: 1, PageSize: 1})
		if err != nil {
			deps.View.Error(ctx, deps.Logger, w, r, err)
			return
		}
		recent, err := deps.Orders.ListForVendor(ctx, vendor.ID, pagination.Params{Page: 1, PageSize: recentOrdersLimit}, orders.ListFilters{})
		if err != nil {
			deps.View.Error(ctx, deps.Logger, w, r, err)
			return
		}

		deps.View.Page(w, r, http.StatusOK, "vendors/dashboard", responses.Data{
			"Title":        vendor.StoreName,
			"Vendor":       vendor,
			"ProductCount": products.Total,
			"OrderCount":   recent.Total,
			"RecentOrders": recent.Orders,
		})
	}
}

type profileForm struct {
	StoreName      string `form:"store_name" validate:"required,max=100"`
	Description    string `form:"description" validate:"max=5000"`
	PhoneNumber    string `form:"phone_number" validate:"max=20"`
	WhatsAppNumber string `form:"whatsapp_number" validate:"max=20"`
	Instagram      string `form:"instagram" validate:"omitempty,url,max=200"`
	Facebook       string `form:"facebook" validate:"omitempty,url,max=200"`
}

func profileFormFrom(v *models.Vendor) profileForm {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return profileForm{
		StoreName:      v.StoreName,
		Description:    deref(v.Description),
		PhoneNumber:    deref(v.PhoneNumber),
		WhatsAppNumber: deref(v.WhatsAppNumber),
		Instagram:      deref(v.Instagram),
		Facebook:       deref(v.Facebook),
	}
}

func (d DashboardDeps) renderProfile(w http.ResponseWriter, r *http.Request, status int, vendor *models.Vendor, form profileForm, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	d.View.Page(w, r, status, "vendors/profile", responses.Data{
		"Title":  "Store profile",
		"Vendor": vendor,
		"Form":   form,
		"Errors": errs,
	})
}

// ProfileForm shows the store profile for editing.
func ProfileForm(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		deps.renderProfile(w, r, http.StatusOK, vendor, profileFormFrom(vendor), nil)
	}
}

// ProfileUpdate saves the store profile.
func ProfileUpdate(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		if err := validators.ParseForm(w, r); err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		form := profileForm{
			StoreName:      validators.FormString(r, "store_name", 0),
			Description:    validators.FormString(r, "description", 0),
			PhoneNumber:    validators.FormString(r, "phone_number", 0),
			WhatsAppNumber: validators.FormString(r, "whatsapp_number", 0),
			Instagram:      validators.FormString(r, "instagram", 0),
			Facebook:       validators.FormString(r, "facebook", 0),
		}
		if err := validators.Struct(&form); err != nil {
			deps.renderProfile(w, r, http.StatusBadRequest, vendor, form, validators.FieldErrors(err))
			return
		}

		_, err = deps.Vendors.UpdateProfile(r.Context(), vendor.ID, vendors.ProfileInput{
			StoreName:      form.StoreName,
			Description:    form.Description,
			PhoneNumber:    form.PhoneNumber,
			WhatsAppNumber: form.WhatsAppNumber,
			Instagram:      form.Instagram,
			Facebook:       form.Facebook,
		})
		if err != nil {
			switch pkgerrors.CodeOf(err) {
			case pkgerrors.CodeValidation, pkgerrors.CodeConflict:
				deps.renderProfile(w, r, http.StatusBadRequest, vendor, form, map[string]string{"store_name": pkgerrors.As(err).Message()})
			default:
				deps.View.Error(r.Context(), deps.Logger, w, r, err)
			}
			return
		}
		flash(w, r, deps.Sessions, deps.Logger, websession.FlashSuccess, "Profile updated.")
		redirect(w, r, dashboardPath+"/profile")
	}
}
