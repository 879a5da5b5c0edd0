package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Context identifies the vendor whose storefront the request addresses.
type Context struct {
	VendorID       uuid.UUID
	Slug           string
	StoreName      string
	WhatsAppNumber string
}

type ctxKey struct{}

// WithContext stores the tenant on ctx. A nil tenant leaves ctx unchanged.
func WithContext(ctx context.Context, t *Context) context.Context {
	if t == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the tenant attached by the resolver, or nil on the main domain.
func FromContext(ctx context.Context) *Context {
	t, _ := ctx.Value(ctxKey{}).(*Context)
	return t
}
