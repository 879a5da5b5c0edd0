// Package cart keeps one pending cart per shopper identity per vendor.
package cart

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultSuggestionLimit is how many products the cart page suggests.
const DefaultSuggestionLimit = 4

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type itemRecorder interface {
	IncItemAdded(vendor string)
}

// UpdateResult describes a line after a quantity change. When Removed is set the
// line no longer exists and the other fields are zero.
type UpdateResult struct {
	Removed   bool
	Quantity  int
	Subtotal  decimal.Decimal
	CartCount int
}

// View is a materialised cart with live totals.
type View struct {
	Cart  *models.Cart
	Items []models.CartItem
	Total decimal.Decimal
	Count int
}

// Service exposes cart operations. Item operations only see items of the caller's
// own cart for the vendor.
type Service interface {
	GetOrCreateCart(ctx context.Context, identity Identity, vendorID uuid.UUID) (*models.Cart, error)
	GetCart(ctx context.Context, identity Identity, vendorID uuid.UUID) (*models.Cart, error)
	View(ctx context.Context, identity Identity, vendorID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, identity Identity, vendorID, productID uuid.UUID) (*models.CartItem, int, error)
	UpdateQuantity(ctx context.Context, identity Identity, vendorID, itemID uuid.UUID, action enums.CartAction) (*UpdateResult, error)
	RemoveItem(ctx context.Context, identity Identity, vendorID, itemID uuid.UUID) error
	ItemCount(ctx context.Context, identity Identity, vendorID uuid.UUID) (int, error)
	Suggested(ctx context.Context, vendorID uuid.UUID, cart *models.Cart, limit int) ([]models.Product, error)
}

type service struct {
	repo    *Repository
	tx      txRunner
	metrics itemRecorder
}

// NewService builds a cart service. metrics may be nil.
func NewService(repo *Repository, tx txRunner, metrics itemRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: metrics}, nil
}

// Totals sums live subtotals and quantities of the given lines.
func Totals(items []models.CartItem) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, item := range items {
		total = total.Add(item.Subtotal())
		count += item.Quantity
	}
	return total, count
}

func (s *service) GetOrCreateCart(ctx context.Context, identity Identity, vendorID uuid.UUID) (*models.Cart, error) {
	if err := validate(identity, vendorID); err != nil {
		return nil, err
	}
	cart, err := s.repo.UpsertCart(ctx, identity, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get or create cart")
	}
	return cart, nil
}

func (s *service) GetCart(ctx context.Context, identity Identity, vendorID uuid.UUID) (*models.Cart, error) {
	if err := validate(identity, vendorID); err != nil {
		return nil, err
	}
	cart, err := s.repo.FindCart(ctx, identity, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) View(ctx context.Context, identity Identity, vendorID uuid.UUID) (*View, error) {
	cart, err := s.GetOrCreateCart(ctx, identity, vendorID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	total, count := Totals(items)
	return &View{Cart: cart, Items: items, Total: total, Count: count}, nil
}

// AddItem puts one unit of an active vendor product in the cart and returns the
// line together with the cart's new item count.
func (s *service) AddItem(ctx context.Context, identity Identity, vendorID, productID uuid.UUID) (*models.CartItem, int, error) {
	if err := validate(identity, vendorID); err != nil {
		return nil, 0, err
	}

	var (
		item  *models.CartItem
		count int
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindActiveProduct(ctx, vendorID, productID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		cart, err := repo.UpsertCart(ctx, identity, vendorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get or create cart")
		}
		item, err = repo.IncrementItem(ctx, cart.ID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
		}
		count, err = repo.SumQuantity(ctx, cart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart items")
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if s.metrics != nil {
		s.metrics.IncItemAdded(vendorID.String())
	}
	return item, count, nil
}

// UpdateQuantity applies increase or decrease. Decreasing a single unit removes the line.
func (s *service) UpdateQuantity(ctx context.Context, identity Identity, vendorID, itemID uuid.UUID, action enums.CartAction) (*UpdateResult, error) {
	if !action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be increase or decrease")
	}
	if err := validate(identity, vendorID); err != nil {
		return nil, err
	}

	result := &UpdateResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, item, err := s.ownedItem(ctx, repo, identity, vendorID, itemID)
		if err != nil {
			return err
		}

		switch {
		case action == enums.CartActionIncrease:
			item.Quantity++
			err = repo.SetItemQuantity(ctx, item.ID, item.Quantity)
		case item.Quantity > 1:
			item.Quantity--
			err = repo.SetItemQuantity(ctx, item.ID, item.Quantity)
		default:
			result.Removed = true
			err = repo.DeleteItem(ctx, item.ID)
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
		if !result.Removed {
			result.Quantity = item.Quantity
			result.Subtotal = item.Subtotal()
		}
		result.CartCount, err = repo.SumQuantity(ctx, cart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) RemoveItem(ctx context.Context, identity Identity, vendorID, itemID uuid.UUID) error {
	if err := validate(identity, vendorID); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		_, item, err := s.ownedItem(ctx, repo, identity, vendorID, itemID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
		}
		return nil
	})
}

// ItemCount is the sum of quantities; zero when the shopper has no cart yet.
func (s *service) ItemCount(ctx context.Context, identity Identity, vendorID uuid.UUID) (int, error) {
	cart, err := s.GetCart(ctx, identity, vendorID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return 0, nil
		}
		return 0, err
	}
	count, err := s.repo.SumQuantity(ctx, cart.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart items")
	}
	return count, nil
}

func (s *service) Suggested(ctx context.Context, vendorID uuid.UUID, cart *models.Cart, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	var cartID *uuid.UUID
	if cart != nil {
		cartID = &cart.ID
	}
	products, err := s.repo.SuggestProducts(ctx, vendorID, cartID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "suggest products")
	}
	return products, nil
}

func (s *service) ownedItem(ctx context.Context, repo *Repository, identity Identity, vendorID, itemID uuid.UUID) (*models.Cart, *models.CartItem, error) {
	cart, err := repo.FindCart(ctx, identity, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	item, err := repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	return cart, item, nil
}

func validate(identity Identity, vendorID uuid.UUID) error {
	if vendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	if err := identity.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return nil
}
