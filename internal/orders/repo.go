package orders

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the order together with its items.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{}).Where("vendor_id = ?", vendorID)
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	window := pagination.Resolve(params, total)

	var orders []models.Order
	err := qb.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Offset(window.Offset()).
		Limit(window.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return &OrderList{Orders: orders, Window: window}, nil
}

func (r *repository) FindForVendor(ctx context.Context, vendorID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_name ASC")
		}).
		Where("id = ? AND vendor_id = ?", orderID, vendorID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateStatus(ctx context.Context, vendorID, orderID uuid.UUID, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND vendor_id = ?", orderID, vendorID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
