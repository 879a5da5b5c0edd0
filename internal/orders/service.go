// Package orders lets vendors review the orders placed on their storefront.
package orders

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service defines vendor-facing order operations.
type Service interface {
	ListForVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	GetForVendor(ctx context.Context, vendorID, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, vendorID, orderID uuid.UUID, status string) (*models.Order, error)
}

type service struct {
	repo Repository
}

// NewService builds a vendor order service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListForVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	list, err := s.repo.ListByVendor(ctx, vendorID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// GetForVendor loads an order with its items. Orders of other vendors are not found.
func (s *service) GetForVendor(ctx context.Context, vendorID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindForVendor(ctx, vendorID, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, vendorID, orderID uuid.UUID, raw string) (*models.Order, error) {
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status").
			WithDetails(map[string]any{"status": raw})
	}
	current, err := s.GetForVendor(ctx, vendorID, orderID)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	if current.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order is already %s", current.Status)).
			WithDetails(map[string]any{"status": current.Status.String()})
	}
	if err := s.repo.UpdateStatus(ctx, vendorID, orderID, status); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return s.GetForVendor(ctx, vendorID, orderID)
}
