// Package checkout turns a shopper's cart into an immutable order.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/tenant"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/whatsapp"
	"gorm.io/gorm"
)

// ErrEmptyCart is returned when there is nothing to check out. Callers treat it as
// an informational outcome and send the shopper back to the cart.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeStateConflict, "your cart is empty")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderRecorder interface {
	ObserveOrder(vendor, channel string, totalCents int64)
}

// Service executes checkout.
type Service interface {
	PlaceOrder(ctx context.Context, identity cart.Identity, store *tenant.Context, input CustomerInput, channel enums.OrderChannel) (*models.Order, error)
	WhatsAppLink(store *tenant.Context, order *models.Order) (string, error)
}

// Params bundles the checkout dependencies.
type Params struct {
	Tx              txRunner
	CartRepo        *cart.Repository
	OrdersRepo      orders.Repository
	Formatter       *money.Formatter
	WhatsAppBaseURL string
	Metrics         orderRecorder
}

type service struct {
	tx              txRunner
	cartRepo        *cart.Repository
	ordersRepo      orders.Repository
	formatter       *money.Formatter
	whatsAppBaseURL string
	metrics         orderRecorder
}

// NewService builds the checkout service. Metrics may be nil.
func NewService(params Params) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Formatter == nil {
		return nil, fmt.Errorf("money formatter required")
	}
	return &service{
		tx:              params.Tx,
		cartRepo:        params.CartRepo,
		ordersRepo:      params.OrdersRepo,
		formatter:       params.Formatter,
		whatsAppBaseURL: params.WhatsAppBaseURL,
		metrics:         params.Metrics,
	}, nil
}

// PlaceOrder snapshots the cart into a pending order and deletes the cart, all in
// one transaction. Unit prices are captured in cents at this moment.
func (s *service) PlaceOrder(ctx context.Context, identity cart.Identity, store *tenant.Context, input CustomerInput, channel enums.OrderChannel) (*models.Order, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if err := identity.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	if !channel.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout channel")
	}
	if channel == enums.OrderChannelWhatsApp && whatsapp.NormalizeNumber(store.WhatsAppNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "this store does not take WhatsApp orders")
	}
	input = input.normalized()
	if err := validateCustomer(input); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		record, err := cartRepo.FindCart(ctx, identity, store.VendorID)
		if err != nil {
			if db.IsNotFound(err) {
				return ErrEmptyCart
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		items, err := cartRepo.ListItems(ctx, record.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		total, _ := cart.Totals(items)
		order = &models.Order{
			VendorID:        store.VendorID,
			CustomerName:    input.Name,
			CustomerPhone:   input.Phone,
			CustomerAddress: optional(input.Address),
			CustomerEmail:   optional(input.Email),
			Notes:           optional(input.Notes),
			TotalCents:      money.ToCents(total),
			Status:          enums.OrderStatusPending,
			Channel:         channel,
			Items:           make([]models.OrderItem, 0, len(items)),
		}
		for _, item := range items {
			if item.Product == nil {
				continue
			}
			productID := item.ProductID
			order.Items = append(order.Items, models.OrderItem{
				ProductID:      &productID,
				ProductName:    item.Product.Name,
				UnitPriceCents: money.ToCents(item.Product.Price),
				Quantity:       item.Quantity,
			})
		}

		if err := s.ordersRepo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := cartRepo.DeleteCart(ctx, record.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveOrder(store.VendorID.String(), channel.String(), order.TotalCents)
	}
	return order, nil
}

func (s *service) WhatsAppLink(store *tenant.Context, order *models.Order) (string, error) {
	if store == nil {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return BuildWhatsAppLink(s.whatsAppBaseURL, store.WhatsAppNumber, order, s.formatter)
}

// IsEmptyCart reports whether err is ErrEmptyCart.
func IsEmptyCart(err error) bool {
	return errors.Is(err, ErrEmptyCart)
}

func validateCustomer(input CustomerInput) error {
	missing := make([]string, 0, 3)
	if input.Name == "" {
		missing = append(missing, "name")
	}
	if input.Phone == "" {
		missing = append(missing, "phone")
	}
	if input.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "name, phone and address are required").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}
