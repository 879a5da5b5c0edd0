package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type vendorLister interface {
	List(ctx context.Context) ([]models.Vendor, error)
}

// Home renders the main-domain directory of stores.
func Home(vendors vendorLister, view *responses.View, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := vendors.List(r.Context())
		if err != nil {
			view.Error(r.Context(), logg, w, r, err)
			return
		}
		view.Page(w, r, http.StatusOK, "home", responses.Data{
			"Title":   "Stores",
			"Vendors": list,
		})
	}
}
