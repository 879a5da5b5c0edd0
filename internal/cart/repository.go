package cart

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates cart and cart item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
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

// UpsertCart inserts the (identity, vendor) cart unless it exists and returns the stored row.
// Concurrent callers converge on the same row through the unique index.
func (r *Repository) UpsertCart(ctx context.Context, identity Identity, vendorID uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{
		VendorID:    vendorID,
		IdentityKey: identity.Key(),
		UserID:      identity.UserID,
	}
	if identity.UserID == nil {
		token := strings.TrimSpace(identity.SessionToken)
		cart.SessionToken = &token
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity_key"}, {Name: "vendor_id"}},
			DoNothing: true,
		}).
		Omit("Items").
		Create(cart).Error
	if err != nil {
		return nil, err
	}
	return r.FindCart(ctx, identity, vendorID)
}

func (r *Repository) FindCart(ctx context.Context, identity Identity, vendorID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where("identity_key = ? AND vendor_id = ?", identity.Key(), vendorID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindActiveProduct loads a product the vendor currently sells.
func (r *Repository) FindActiveProduct(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ? AND is_active = ?", productID, vendorID, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// IncrementItem adds one unit of the product, creating the line when absent.
func (r *Repository) IncrementItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	item := &models.CartItem{CartID: cartID, ProductID: productID, Quantity: 1}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + 1"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Omit("Product").
		Create(item).Error
	if err != nil {
		return nil, err
	}

	var stored models.CartItem
	err = r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindItem loads an item only when it belongs to the cart.
func (r *Repository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *Repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.CartItem{}).Error
}

// ListItems returns the cart lines with their live products, oldest first.
func (r *Repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SumQuantity totals the quantities of a cart without loading products.
func (r *Repository) SumQuantity(ctx context.Context, cartID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("cart_id = ?", cartID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// DeleteCart removes the cart and its items.
func (r *Repository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", cartID).Delete(&models.Cart{}).Error
}

// SuggestProducts returns active vendor products that are not in the cart.
func (r *Repository) SuggestProducts(ctx context.Context, vendorID uuid.UUID, cartID *uuid.UUID, limit int) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).
		Where("vendor_id = ? AND is_active = ?", vendorID, true)
	if cartID != nil {
		inCart := r.db.Model(&models.CartItem{}).Select("product_id").Where("cart_id = ?", *cartID)
		qb = qb.Where("id NOT IN (?)", inCart)
	}
	var products []models.Product
	err := qb.Order("created_at DESC").Order("id ASC").Limit(limit).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
