package dbtest

import (
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MustCreateUser inserts an account with a placeholder password hash.
func MustCreateUser(t testing.TB, conn *gorm.DB, username string) *models.User {
	t.Helper()
	if username == "" {
		username = "user_" + uuid.NewString()[:8]
	}
	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// MustCreateVendor inserts an owner account and a vendor slugged from storeName.
// Store names must be distinct within a test.
func MustCreateVendor(t testing.TB, conn *gorm.DB, storeName string) *models.Vendor {
	t.Helper()
	user := MustCreateUser(t, conn, "")
	vendorSlug := slug.Make(storeName)
	vendor := &models.Vendor{UserID: user.ID, StoreName: storeName, Slug: &vendorSlug}
	if err := conn.Create(vendor).Error; err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	return vendor
}

// MustCreateProduct inserts an active product priced at price (e.g. "10.00").
func MustCreateProduct(t testing.TB, conn *gorm.DB, vendorID uuid.UUID, name, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		VendorID: vendorID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		IsActive: true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
