package catalog

import (
	"net/url"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filters narrows the storefront listing. Nil fields and empty strings mean "no filter".
type Filters struct {
	VendorID   *uuid.UUID
	Query      string
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       enums.CatalogSort
	Page       int
	PageSize   int
}

// ParseFilters reads the storefront query string. Unparseable values are dropped
// rather than rejected.
func ParseFilters(values url.Values) Filters {
	filters := Filters{
		Query: strings.TrimSpace(values.Get("q")),
		Sort:  enums.ParseCatalogSort(values.Get("sort")),
		Page:  pagination.ParsePage(values.Get("page")),
	}
	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filters.CategoryID = &id
		}
	}
	filters.MinPrice = parsePrice(values.Get("min_price"))
	filters.MaxPrice = parsePrice(values.Get("max_price"))
	return filters
}

// Encode renders the active filters back into query values, without the page.
func (f Filters) Encode() url.Values {
	values := url.Values{}
	if f.Query != "" {
		values.Set("q", f.Query)
	}
	if f.CategoryID != nil {
		values.Set("category", f.CategoryID.String())
	}
	if f.MinPrice != nil {
		values.Set("min_price", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		values.Set("max_price", f.MaxPrice.String())
	}
	if f.Sort != "" && f.Sort != enums.DefaultCatalogSort {
		values.Set("sort", f.Sort.String())
	}
	return values
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &value
}

// Page is one page of storefront products.
type Page struct {
	Items []models.Product
	pagination.Window
}
