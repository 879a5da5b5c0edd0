package orders

import (
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

// ListFilters narrows the vendor order list.
type ListFilters struct {
	Status *enums.OrderStatus
}

// OrderList is one page of vendor orders, newest first. Items are not loaded.
type OrderList struct {
	Orders []models.Order
	pagination.Window
}
