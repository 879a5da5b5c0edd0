package product

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var searchClause = db.ContainsClause("name", "description")

// Repository encapsulates vendor product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindForVendor loads a product only when it belongs to the vendor.
func (r *Repository) FindForVendor(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND vendor_id = ?", productID, vendorID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Vendor", "Category").Create(product).Error
}

// Update writes every editable column, including false booleans and cleared pointers.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND vendor_id = ?", product.ID, product.VendorID).
		Updates(map[string]any{
			"category_id":        product.CategoryID,
			"name":               product.Name,
			"description":        product.Description,
			"price":              product.Price,
			"stock":              product.Stock,
			"image_url":          product.ImageURL,
			"order_via_whatsapp": product.OrderViaWhatsApp,
			"is_active":          product.IsActive,
		}).Error
}

// Delete removes the product, dropping it from carts and detaching order history.
func (r *Repository) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.OrderItem{}).
		Where("product_id = ?", productID).
		Update("product_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", productID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ? AND vendor_id = ?", productID, vendorID).Delete(&models.Product{}).Error
}

// ListForVendor pages through every product of the vendor, active or not, newest first.
func (r *Repository) ListForVendor(ctx context.Context, vendorID uuid.UUID, query ListQuery) (*ListResult, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{}).Where("vendor_id = ?", vendorID)
	if search := strings.TrimSpace(query.Query); search != "" {
		pattern := db.ContainsPattern(search)
		qb = qb.Where(searchClause, pattern, pattern)
	}
	if query.CategoryID != nil {
		qb = qb.Where("category_id = ?", *query.CategoryID)
	}

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	window := pagination.Resolve(pagination.Params{Page: query.Page, PageSize: query.PageSize}, total)

	var items []models.Product
	err := qb.Session(&gorm.Session{}).
		Preload("Category").
		Order("created_at DESC").
		Order("id DESC").
		Offset(window.Offset()).
		Limit(window.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Window: window}, nil
}
