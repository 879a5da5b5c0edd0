package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
)

const dashboardOrdersPath = dashboardPath + "/orders"

// DashboardOrders lists the vendor's orders, newest first. An optional status
// query narrows the list.
func DashboardOrders(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		q := r.URL.Query()
		var filters orders.ListFilters
		if raw := q.Get("status"); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				deps.View.Error(r.Context(), deps.Logger, w, r, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status"))
				return
			}
			filters.Status = &status
		}

		list, err := deps.Orders.ListForVendor(r.Context(), vendor.ID, pagination.Params{Page: pagination.ParsePage(q.Get("page"))}, filters)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		deps.View.Page(w, r, http.StatusOK, "vendors/orders", responses.Data{
			"Title":    "Orders",
			"Vendor":   vendor,
			"Orders":   list,
			"Statuses": enums.OrderStatuses(),
		})
	}
}

// DashboardOrder shows one of the vendor's orders with its line items.
func DashboardOrder(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		orderID, err := validators.URLParamUUID(r, "orderID")
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		order, err := deps.Orders.GetForVendor(r.Context(), vendor.ID, orderID)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		deps.View.Page(w, r, http.StatusOK, "vendors/order", responses.Data{
			"Title":    "Order",
			"Vendor":   vendor,
			"Order":    order,
			"Statuses": enums.OrderStatuses(),
		})
	}
}

// DashboardOrderStatus moves an order to a new status.
func DashboardOrderStatus(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, r, err := deps.currentVendor(r)
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		orderID, err := validators.URLParamUUID(r, "orderID")
		if err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		if err := validators.ParseForm(w, r); err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		target := dashboardOrdersPath + "/" + orderID.String()

		order, err := deps.Orders.UpdateStatus(r.Context(), vendor.ID, orderID, r.PostFormValue("status"))
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeValidation) || pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
				flash(w, r, deps.Sessions, deps.Logger, websession.FlashError, pkgerrors.As(err).Message())
				redirect(w, r, target)
				return
			}
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		flash(w, r, deps.Sessions, deps.Logger, websession.FlashSuccess, "Order marked as "+string(order.Status)+".")
		redirect(w, r, target)
	}
}
