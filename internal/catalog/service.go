// Package catalog serves the shopper-facing product listing of a storefront.
package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/internal/tenant"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/whatsapp"
	"github.com/google/uuid"
)

// ProductView is a storefront product plus its optional enquiry link.
type ProductView struct {
	Product     models.Product
	EnquiryLink string
}

// Service exposes storefront catalog reads.
type Service interface {
	List(ctx context.Context, filters Filters) (*Page, error)
	VendorCategories(ctx context.Context, vendorID uuid.UUID) ([]models.Category, error)
	ProductForStorefront(ctx context.Context, store *tenant.Context, productID uuid.UUID) (*ProductView, error)
}

type service struct {
	repo            *Repository
	pageSize        int
	whatsAppBaseURL string
}

// NewService builds a catalog service. pageSize <= 0 uses the default of 12.
func NewService(repo *Repository, pageSize int, whatsAppBaseURL string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, pageSize: pageSize, whatsAppBaseURL: whatsAppBaseURL}, nil
}

func (s *service) List(ctx context.Context, filters Filters) (*Page, error) {
	if filters.PageSize <= 0 {
		filters.PageSize = s.pageSize
	}
	page, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog")
	}
	return page, nil
}

func (s *service) VendorCategories(ctx context.Context, vendorID uuid.UUID) ([]models.Category, error) {
	categories, err := s.repo.VendorCategories(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor categories")
	}
	return categories, nil
}

// ProductForStorefront returns an active product of the store. The enquiry link is
// set only when the product opts in and the store has a WhatsApp number.
func (s *service) ProductForStorefront(ctx context.Context, store *tenant.Context, productID uuid.UUID) (*ProductView, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	product, err := s.repo.FindActive(ctx, store.VendorID, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	view := &ProductView{Product: *product}
	if product.OrderViaWhatsApp && store.WhatsAppNumber != "" {
		link, err := whatsapp.Link(s.whatsAppBaseURL, store.WhatsAppNumber, EnquiryText(product.Name))
		if err == nil {
			view.EnquiryLink = link
		}
	}
	return view, nil
}

// EnquiryText is the prefilled message for a single product.
func EnquiryText(productName string) string {
	return fmt.Sprintf("Hello! I'm interested in %s.", productName)
}
