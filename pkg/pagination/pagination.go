package pagination

import (
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the storefront and dashboard page size.
	DefaultPageSize = 12
	// MaxPageSize caps any configured page size.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Window is the resolved slice of a result set.
type Window struct {
	Number     int
	PageSize   int
	Total      int64
	TotalPages int
}

// NormalizePageSize enforces the default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// ParsePage reads a page number from raw input; anything unusable is page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Resolve clamps the requested page into the available range. An empty result
// set still has a single (empty) page.
func Resolve(params Params, total int64) Window {
	size := NormalizePageSize(params.PageSize)
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	number := params.Page
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	return Window{
		Number:     number,
		PageSize:   size,
		Total:      total,
		TotalPages: pages,
	}
}

// Offset is the row offset for the window.
func (w Window) Offset() int {
	return (w.Number - 1) * w.PageSize
}

func (w Window) HasNext() bool {
	return w.Number < w.TotalPages
}

func (w Window) HasPrevious() bool {
	return w.Number > 1
}

func (w Window) NextNumber() int {
	return w.Number + 1
}

func (w Window) PreviousNumber() int {
	return w.Number - 1
}
