package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Order is the immutable record of a checkout. Money is stored in minor units.
type Order struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	VendorID        uuid.UUID          `gorm:"column:vendor_id;type:uuid;not null;index"`
	CustomerName    string             `gorm:"column:customer_name;not null"`
	CustomerPhone   string             `gorm:"column:customer_phone;not null"`
	CustomerEmail   *string            `gorm:"column:customer_email"`
	CustomerAddress *string            `gorm:"column:customer_address"`
	TotalCents      int64              `gorm:"column:total_cents;not null"`
	Status          enums.OrderStatus  `gorm:"column:status;not null"`
	Channel         enums.OrderChannel `gorm:"column:channel;not null"`
	Notes           *string            `gorm:"column:notes"`
	Items           []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// OrderItem snapshots a cart line. ProductID is a weak reference cleared when the product is deleted.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	ProductName    string     `gorm:"column:product_name;not null"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null"`
	Quantity       int        `gorm:"column:quantity;not null"`
}

// LineTotalCents is unit price × quantity.
func (i OrderItem) LineTotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}
