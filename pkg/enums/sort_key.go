package enums

import "strings"

// CatalogSort selects the storefront ordering.
type CatalogSort string

const (
	CatalogSortPriceAsc  CatalogSort = "price_asc"
	CatalogSortPriceDesc CatalogSort = "price_desc"
	CatalogSortNameAsc   CatalogSort = "name_asc"
	CatalogSortNameDesc  CatalogSort = "name_desc"
	CatalogSortDateAsc   CatalogSort = "date_asc"
	CatalogSortDateDesc  CatalogSort = "date_desc"

	DefaultCatalogSort = CatalogSortDateDesc
)

var validCatalogSorts = []CatalogSort{
	CatalogSortPriceAsc,
	CatalogSortPriceDesc,
	CatalogSortNameAsc,
	CatalogSortNameDesc,
	CatalogSortDateAsc,
	CatalogSortDateDesc,
}

// CatalogSorts returns every sort option in display order.
func CatalogSorts() []CatalogSort {
	return append([]CatalogSort(nil), validCatalogSorts...)
}

func (s CatalogSort) String() string {
	return string(s)
}

func (s CatalogSort) IsValid() bool {
	for _, candidate := range validCatalogSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCatalogSort never fails: unknown or empty keys fall back to newest first.
func ParseCatalogSort(value string) CatalogSort {
	sort := CatalogSort(strings.ToLower(strings.TrimSpace(value)))
	if sort.IsValid() {
		return sort
	}
	return DefaultCatalogSort
}
