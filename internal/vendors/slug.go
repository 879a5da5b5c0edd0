package vendors

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

const (
	fallbackSlug = "store"
	// maxSlugAttempts bounds the suffix search for one store name.
	maxSlugAttempts = 100
)

// BaseSlug derives the URL slug for a store name.
func BaseSlug(storeName string) string {
	base := slug.Make(strings.TrimSpace(storeName))
	if base == "" {
		return fallbackSlug
	}
	return base
}

// Candidate returns the n-th slug to try for base: base itself, then base-1, base-2, ...
func Candidate(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
