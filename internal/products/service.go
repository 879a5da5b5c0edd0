package product

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxNameLength = 200

// maxPrice is the largest value numeric(10,2) accepts.
var maxPrice = decimal.RequireFromString("99999999.99")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type categoryLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// Service exposes vendor product management operations. Every call is scoped to
// the vendor; products of other vendors are reported as not found.
type Service interface {
	Create(ctx context.Context, vendorID uuid.UUID, input Input) (*models.Product, error)
	Update(ctx context.Context, vendorID, productID uuid.UUID, input Input) (*models.Product, error)
	Delete(ctx context.Context, vendorID, productID uuid.UUID) error
	Get(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID, query ListQuery) (*ListResult, error)
}

type service struct {
	repo       *Repository
	tx         txRunner
	categories categoryLookup
}

// NewService builds a product service.
func NewService(repo *Repository, tx txRunner, categories categoryLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category lookup required")
	}
	return &service{repo: repo, tx: tx, categories: categories}, nil
}

func (s *service) Create(ctx context.Context, vendorID uuid.UUID, input Input) (*models.Product, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	product := &models.Product{VendorID: vendorID}
	if err := s.apply(ctx, product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, vendorID, productID uuid.UUID, input Input) (*models.Product, error) {
	product, err := s.Get(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindForVendor(ctx, vendorID, productID); err != nil {
			return mapLookupErr(err)
		}
		if err := repo.Delete(ctx, vendorID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
		return nil
	})
}

func (s *service) Get(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindForVendor(ctx, vendorID, productID)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return product, nil
}

func (s *service) ListForVendor(ctx context.Context, vendorID uuid.UUID, query ListQuery) (*ListResult, error) {
	result, err := s.repo.ListForVendor(ctx, vendorID, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// apply validates input and copies it onto product.
func (s *service) apply(ctx context.Context, product *models.Product, input Input) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(name) > maxNameLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is too long")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be zero or more")
	}
	if input.Price.GreaterThan(maxPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price is too large")
	}
	if !input.Price.Equal(input.Price.Round(2)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must have at most two decimal places")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be zero or more")
	}

	var imageURL *string
	if raw := strings.TrimSpace(input.ImageURL); raw != "" {
		parsed, err := url.ParseRequestURI(raw)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "image url must be an http(s) url")
		}
		imageURL = &raw
	}

	if input.CategoryID != nil {
		category, err := s.categories.Get(ctx, *input.CategoryID)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return err
		}
		product.Category = category
	} else {
		product.Category = nil
	}

	product.CategoryID = input.CategoryID
	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.Stock = input.Stock
	product.ImageURL = imageURL
	product.OrderViaWhatsApp = input.OrderViaWhatsApp
	product.IsActive = input.IsActive
	return nil
}

func mapLookupErr(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
}
