package vendors

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSlugExhausted is returned when no free slug was found within the attempt budget.
var ErrSlugExhausted = errors.New("no free slug available")

// Repository handles vendor persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to vendor operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func isSlugViolation(err error) bool {
	return db.IsUniqueViolation(err, models.VendorSlugConstraint, "vendors.slug")
}

// CreateWithUniqueSlug inserts the vendor under the first free slug derived from
// its store name. Each candidate runs in its own savepoint so a slug collision
// does not abort an enclosing transaction.
func (r *Repository) CreateWithUniqueSlug(ctx context.Context, vendor *models.Vendor) error {
	if vendor == nil {
		return fmt.Errorf("vendor is required")
	}
	base := BaseSlug(vendor.StoreName)
	for n := 0; n < maxSlugAttempts; n++ {
		candidate := Candidate(base, n)
		vendor.Slug = &candidate
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(vendor).Error
		})
		if err == nil {
			return nil
		}
		if !isSlugViolation(err) {
			vendor.Slug = nil
			return err
		}
		vendor.ID = uuid.Nil
	}
	vendor.Slug = nil
	return ErrSlugExhausted
}

// AssignSlug gives a slug-less vendor the first free candidate and returns the
// vendor as stored. A vendor that already has a slug is returned unchanged.
func (r *Repository) AssignSlug(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, bool, error) {
	vendor, err := r.FindByID(ctx, vendorID)
	if err != nil {
		return nil, false, err
	}
	if vendor.Slug != nil && *vendor.Slug != "" {
		return vendor, false, nil
	}

	base := BaseSlug(vendor.StoreName)
	for n := 0; n < maxSlugAttempts; n++ {
		candidate := Candidate(base, n)
		var affected int64
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Vendor{}).
				Where("id = ? AND (slug IS NULL OR slug = '')", vendorID).
				Update("slug", candidate)
			affected = res.RowsAffected
			return res.Error
		})
		if err != nil {
			if isSlugViolation(err) {
				continue
			}
			return nil, false, err
		}
		reloaded, err := r.FindByID(ctx, vendorID)
		if err != nil {
			return nil, false, err
		}
		// zero rows means a concurrent request assigned the slug first
		return reloaded, affected > 0, nil
	}
	return nil, false, ErrSlugExhausted
}

// FindBySlug loads a vendor by its storefront slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByID loads a vendor by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByUserID loads the vendor owned by the given account.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// StoreNameTaken reports whether another vendor already uses the store name.
func (r *Repository) StoreNameTaken(ctx context.Context, storeName string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Vendor{}).Where("store_name = ?", storeName)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns every vendor with a slug, ordered by store name.
func (r *Repository) List(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Where("slug IS NOT NULL AND slug <> ''").
		Order("store_name ASC").
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

// UpdateProfile writes the editable profile columns. The slug is never touched.
func (r *Repository) UpdateProfile(ctx context.Context, vendor *models.Vendor) error {
	if vendor == nil {
		return fmt.Errorf("vendor is required")
	}
	return r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", vendor.ID).
		Updates(map[string]any{
			"store_name":      vendor.StoreName,
			"description":     vendor.Description,
			"phone_number":    vendor.PhoneNumber,
			"whatsapp_number": vendor.WhatsAppNumber,
			"instagram":       vendor.Instagram,
			"facebook":        vendor.Facebook,
		}).Error
}
