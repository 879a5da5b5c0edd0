package product

import (
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Input is the vendor-editable product payload used for both create and update.
type Input struct {
	CategoryID       *uuid.UUID
	Name             string
	Description      string
	Price            decimal.Decimal
	Stock            int
	ImageURL         string
	OrderViaWhatsApp bool
	IsActive         bool
}

// ListQuery filters the dashboard product list.
type ListQuery struct {
	Query      string
	CategoryID *uuid.UUID
	Page       int
	PageSize   int
}

// ListResult is one page of the vendor's products.
type ListResult struct {
	Items []models.Product
	pagination.Window
}
