// Package vendors manages vendor storefront records and their slugs.
package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

type vendorRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Vendor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error)
	AssignSlug(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, bool, error)
	StoreNameTaken(ctx context.Context, storeName string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context) ([]models.Vendor, error)
	UpdateProfile(ctx context.Context, vendor *models.Vendor) error
}

// Service exposes vendor lookups and profile management.
type Service interface {
	GetBySlug(ctx context.Context, slug string) (*models.Vendor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Vendor, error)
	EnsureSlug(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, bool, error)
	UpdateProfile(ctx context.Context, vendorID uuid.UUID, input ProfileInput) (*models.Vendor, error)
	List(ctx context.Context) ([]models.Vendor, error)
}

// ProfileInput carries the editable vendor fields. Empty optional values clear the column.
type ProfileInput struct {
	StoreName      string
	Description    string
	PhoneNumber    string
	WhatsAppNumber string
	Instagram      string
	Facebook       string
}

type service struct {
	repo vendorRepository
}

// NewService builds a vendor service backed by the repository.
func NewService(repo vendorRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Vendor, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	vendor, err := s.repo.FindBySlug(ctx, slug)
	return vendor, mapLookupErr(err, "load vendor by slug")
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, id)
	return vendor, mapLookupErr(err, "load vendor")
}

func (s *service) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account has no vendor store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor by user")
	}
	return vendor, nil
}

// EnsureSlug assigns a slug to a vendor that has none. The boolean reports whether
// a slug was assigned by this call.
func (s *service) EnsureSlug(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, bool, error) {
	vendor, assigned, err := s.repo.AssignSlug(ctx, vendorID)
	if err != nil {
		if errors.Is(err, ErrSlugExhausted) {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "could not allocate store slug")
		}
		return nil, false, mapLookupErr(err, "assign vendor slug")
	}
	return vendor, assigned, nil
}

func (s *service) UpdateProfile(ctx context.Context, vendorID uuid.UUID, input ProfileInput) (*models.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, mapLookupErr(err, "load vendor")
	}

	storeName := strings.TrimSpace(input.StoreName)
	if storeName == "" {
		storeName = vendor.StoreName
	}
	if storeName != vendor.StoreName {
		taken, err := s.repo.StoreNameTaken(ctx, storeName, vendor.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check store name")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name already taken")
		}
	}

	vendor.StoreName = storeName
	vendor.Description = optional(input.Description)
	vendor.PhoneNumber = optional(input.PhoneNumber)
	vendor.WhatsAppNumber = optional(input.WhatsAppNumber)
	vendor.Instagram = optional(input.Instagram)
	vendor.Facebook = optional(input.Facebook)

	if err := s.repo.UpdateProfile(ctx, vendor); err != nil {
		if db.IsUniqueViolation(err, models.VendorStoreNameConstraint, "vendors.store_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor profile")
	}
	return vendor, nil
}

func (s *service) List(ctx context.Context) ([]models.Vendor, error) {
	vendors, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return vendors, nil
}

func mapLookupErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
