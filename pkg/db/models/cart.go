package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CartIdentityConstraint = "ux_carts_identity_vendor"
	CartItemConstraint     = "ux_cart_items_cart_product"
)

// Cart holds one shopper's pending items for one vendor. IdentityKey encodes
// either the account or the anonymous session token and is unique per vendor.
type Cart struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	VendorID     uuid.UUID  `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:ux_carts_identity_vendor,priority:2"`
	IdentityKey  string     `gorm:"column:identity_key;not null;uniqueIndex:ux_carts_identity_vendor,priority:1"`
	UserID       *uuid.UUID `gorm:"column:user_id;type:uuid"`
	SessionToken *string    `gorm:"column:session_token"`
	Items        []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// CartItem is a (cart, product) line. Subtotal is always derived from the live product price.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_product,priority:2"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Subtotal is price × quantity against the preloaded product; zero when the product is missing.
func (i CartItem) Subtotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
