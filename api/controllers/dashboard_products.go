package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
)

const dashboardProductsPath = dashboardPath + "/products"

type productForm struct {
	Name             string `form:"name" validate:"required,max=200"`
	Category         string `form:"category" validate:"omitempty,uuid"`
	Description      string `form:"description"`
	Price            string `form:"price" validate:"required,numeric"`
	Stock            string `form:"stock" validate:"omitempty,number"`
	ImageURL         string `form:"image_url" validate:"omitempty,url"`
	OrderViaWhatsApp bool   `form:"order_via_whatsapp"`
	IsActive         bool   `form:"is_active"`
}

func readProductForm(r *http.Request) productForm {
	return productForm{
		Name:             validators.FormString(r, "name", 0),
		Category:         validators.FormString(r, "category", 0),
		Description:      validators.FormString(r, "description", 0),
		Price:            validators.FormString(r, "price", 0),
		Stock:            validators.FormString(r, "stock", 0),
		ImageURL:         validators.FormString(r, "image_url", 0),
		OrderViaWhatsApp: validators.FormBool(r, "order_via_whatsapp"),
		IsActive:         validators.FormBool(r, "is_active"),
	}
}

func productFormFrom(p *models.Product) productForm {
	form := productForm{
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price.StringFixed(2),
		Stock:            strconv.Itoa(p.Stock),
		OrderViaWhatsApp: p.OrderViaWhatsApp,
		IsActive:         p.IsActive,
	}
	if p.CategoryID != nil {
		form.Category = p.CategoryID.String()
	}
	if p.ImageURL != nil {
		form.ImageURL = *p.ImageURL
	}
	return form
}

// input converts a validated form; numeric fields were checked by Struct.
func (f productForm) input() (product.Input, error) {
	price, err := money.Parse(f.Price)
	if err != nil {
		return product.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price is invalid").
			WithDetails(map[string]string{"price": "is invalid"})
	}
	stock := 0
	if f.Stock != "" {
		stock, err = strconv.Atoi(f.Stock)
		if err != nil {
			return product.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "stock is invalid").
				WithDetails(map[string]string{"stock": "is invalid"})
		}
	}
	in := product.Input{
		Name:             f.Name,
		Description:      f.Description,
		Price:            price,
		Stock:            stock,
		ImageURL:         f.ImageURL,
		OrderViaWhatsApp: f.OrderViaWhatsApp,
		IsActive:         f.IsActive,
	}
	if f.Category != "" {
		id, err := uuid.Parse(f.Category)
		if err != nil {
			return product.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "category is invalid").
				WithDetails(map[string]string{"category": "is invalid"})
		}
		in.CategoryID = &id
	}
	return in, nil
}

// formErrors turns a service error into messages for the form, or reports
// false when err is not a user mistake.
func formErrors(err error) (map[string]string, bool) {
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		return nil, false
	}
	if fields := validators.FieldErrors(err); len(fields) > 0 {
		return fields, true
	}
	return map[string]string{"form": pkgerrors.As(err).Message()}, true
}

func (d DashboardDeps) renderProductForm(w http.ResponseWriter, r *http.Request, status int, action string, editing bool, form productForm, errs map[string]string) {
	nodes, err := d.Categories.List(r.Context())
	if err != nil {
		d.View.Error(r.Context(), d.Logger, w, r, err)
		return
	}
	title := "New product"
	if editing {
		title = "Edit product"
	}
	d.View.Page(w, r, status, "vendors/product_form", responses.Data{
		"Title":      title,
		"Action":     action,
		"Editing":    editing,
		"Form":       form,
		"Categories": nodes,
		"Errors":     errs,
	})
}

// DashboardProducts lists the vendor's products with search, category filter
// and pagination.
func DashboardProducts(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		ctx := r.Context()
		q := r.URL.Query()

		query := product.ListQuery{
			Query: validators.SanitizeString(q.Get("q"), 200),
			Page:  pagination.ParsePage(q.Get("page")),
		}
		keep := url.Values{}
		selected := ""
		if query.Query != "" {
			keep.Set("q", query.Query)
		}
		if id, err := uuid.Parse(q.Get("category")); err == nil {
			query.CategoryID = &id
			selected = id.String()
			keep.Set("category", selected)
		}

		result, err := deps.Products.ListForVendor(ctx, vendor.ID, query)
		if err != nil {
			deps.View.Error(ctx, deps.Logger, w, r, err)
			return
		}
		nodes, err := deps.Categories.List(ctx)
		if err != nil {
			deps.View.Error(ctx, deps.Logger, w, r, err)
			return
		}
		deps.View.Page(w, r, http.StatusOK, "vendors/products", responses.Data{
			"Title":            "Products",
			"Vendor":           vendor,
			"Products":         result,
			"Query":            query.Query,
			"SelectedCategory": selected,
			"Categories":       nodes,
			"FilterQuery":      filterQuery(keep.Encode()),
		})
	}
}

// ProductNewForm renders an empty product form. New products start active.
func ProductNewForm(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		deps.renderProductForm(w, r, http.StatusOK, dashboardProductsPath+"/new", false, productForm{IsActive: true, Stock: "0"}, map[string]string{})
	}
}

// ProductCreate saves a new product for the signed-in vendor.
func ProductCreate(deps DashboardDeps) http.HandlerFunc {
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
		action := dashboardProductsPath + "/new"
		form := readProductForm(r)
		in, err := validatedProductInput(form)
		if err == nil {
			_, err = deps.Products.Create(r.Context(), vendor.ID, in)
		}
		if err != nil {
			if errs, ok := formErrors(err); ok {
				deps.renderProductForm(w, r, http.StatusBadRequest, action, false, form, errs)
				return
			}
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		flash(w, r, deps.Sessions, deps.Logger, websession.FlashSuccess, "Product created.")
		redirect(w, r, dashboardProductsPath)
	}
}

func validatedProductInput(form productForm) (product.Input, error) {
	if err := validators.Struct(&form); err != nil {
		return product.Input{}, err
	}
	return form.input()
}

func productPath(id uuid.UUID, suffix string) string {
	return dashboardProductsPath + "/" + id.String() + suffix
}

// ProductEditForm renders the form for one of the vendor's products.
func ProductEditForm(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		productID, err := validators.URLParamUUID(r, "productID")
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		p, err := deps.Products.Get(r.Context(), vendor.ID, productID)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		deps.renderProductForm(w, r, http.StatusOK, productPath(p.ID, "/edit"), true, productFormFrom(p), map[string]string{})
	}
}

// ProductUpdate saves changes to one of the vendor's products.
func ProductUpdate(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		productID, err := validators.URLParamUUID(r, "productID")
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		if err := validators.ParseForm(w, r); err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		form := readProductForm(r)
		in, err := validatedProductInput(form)
		if err == nil {
			_, err = deps.Products.Update(r.Context(), vendor.ID, productID, in)
		}
		if err != nil {
			if errs, ok := formErrors(err); ok {
				deps.renderProductForm(w, r, http.StatusBadRequest, productPath(productID, "/edit"), true, form, errs)
				return
			}
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		flash(w, r, deps.Sessions, deps.Logger, websession.FlashSuccess, "Product updated.")
		redirect(w, r, dashboardProductsPath)
	}
}

// ProductDeleteConfirm asks before deleting a product.
func ProductDeleteConfirm(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		productID, err := validators.URLParamUUID(r, "productID")
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		p, err := deps.Products.Get(r.Context(), vendor.ID, productID)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		deps.View.Page(w, r, http.StatusOK, "vendors/product_delete", responses.Data{
			"Title":   "Delete product",
			"Product": p,
		})
	}
}

// ProductDelete removes one of the vendor's products.
func ProductDelete(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		productID, err := validators.URLParamUUID(r, "productID")
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		if err := deps.Products.Delete(r.Context(), vendor.ID, productID); err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		flash(w, r, deps.Sessions, deps.Logger, websession.FlashSuccess, "Product deleted.")
		redirect(w, r, dashboardProductsPath)
	}
}
