package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a vendor listing. Price is fixed-point with two decimal places.
type Product struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	VendorID         uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	Vendor           *Vendor         `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	CategoryID       *uuid.UUID      `gorm:"column:category_id;type:uuid;index"`
	Category         *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Name             string          `gorm:"column:name;not null"`
	Description      string          `gorm:"column:description;not null"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock            int             `gorm:"column:stock;not null"`
	ImageURL         *string         `gorm:"column:image_url"`
	OrderViaWhatsApp bool            `gorm:"column:order_via_whatsapp;not null"`
	IsActive         bool            `gorm:"column:is_active;not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
