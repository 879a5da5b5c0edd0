package catalog

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var sortClauses = map[enums.CatalogSort]string{
	enums.CatalogSortPriceAsc:  "price ASC",
	enums.CatalogSortPriceDesc: "price DESC",
	enums.CatalogSortNameAsc:   "name ASC",
	enums.CatalogSortNameDesc:  "name DESC",
	enums.CatalogSortDateAsc:   "created_at ASC",
	enums.CatalogSortDateDesc:  "created_at DESC",
}

var searchClause = db.ContainsClause("name", "description")

// Repository runs read-only storefront queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, filters Filters) (*Page, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)
	if filters.VendorID != nil {
		qb = qb.Where("vendor_id = ?", *filters.VendorID)
	}
	if filters.Query != "" {
		pattern := db.ContainsPattern(filters.Query)
		qb = qb.Where(searchClause, pattern, pattern)
	}
	if filters.CategoryID != nil {
		qb = qb.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.MinPrice != nil {
		qb = qb.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		qb = qb.Where("price <= ?", *filters.MaxPrice)
	}

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	window := pagination.Resolve(pagination.Params{Page: filters.Page, PageSize: filters.PageSize}, total)

	order, ok := sortClauses[filters.Sort]
	if !ok {
		order = sortClauses[enums.DefaultCatalogSort]
	}

	var items []models.Product
	err := qb.Session(&gorm.Session{}).
		Preload("Category").
		Order(order).
		Order("id ASC").
		Offset(window.Offset()).
		Limit(window.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Window: window}, nil
}

// VendorCategories returns the distinct categories used by the vendor's active products.
func (r *Repository) VendorCategories(ctx context.Context, vendorID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	sub := r.db.Model(&models.Product{}).
		Select("category_id").
		Where("vendor_id = ? AND is_active = ? AND category_id IS NOT NULL", vendorID, true)
	err := r.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindActive loads an active product of the vendor with its category.
func (r *Repository) FindActive(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND vendor_id = ? AND is_active = ?", productID, vendorID, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
