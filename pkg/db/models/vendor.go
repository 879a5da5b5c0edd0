package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	VendorSlugConstraint      = "ux_vendors_slug"
	VendorStoreNameConstraint = "ux_vendors_store_name"
	VendorUserConstraint      = "ux_vendors_user_id"
)

// Vendor is a tenant storefront. Slug stays nil until assigned so the dashboard
// can repair rows created without one.
type Vendor struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_vendors_user_id"`
	User           *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	StoreName      string    `gorm:"column:store_name;not null;uniqueIndex:ux_vendors_store_name"`
	Slug           *string   `gorm:"column:slug;uniqueIndex:ux_vendors_slug"`
	Description    *string   `gorm:"column:description"`
	PhoneNumber    *string   `gorm:"column:phone_number"`
	WhatsAppNumber *string   `gorm:"column:whatsapp_number"`
	Instagram      *string   `gorm:"column:instagram"`
	Facebook       *string   `gorm:"column:facebook"`
	LogoURL        *string   `gorm:"column:logo_url"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SlugValue returns the slug or an empty string when unassigned.
func (v Vendor) SlugValue() string {
	if v.Slug == nil {
		return ""
	}
	return *v.Slug
}

// WhatsApp returns the messaging number or an empty string.
func (v Vendor) WhatsApp() string {
	if v.WhatsAppNumber == nil {
		return ""
	}
	return *v.WhatsAppNumber
}
