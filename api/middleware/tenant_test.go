package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/tenant"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/google/uuid"
)

type stubResolver struct {
	store *tenant.Context
	err   error
}

func (s stubResolver) Resolve(ctx context.Context, host string) (*tenant.Context, error) {
	return s.store, s.err
}

type outcomeRecorder struct {
	outcomes []string
}

func (o *outcomeRecorder) IncTenantResolution(outcome string) {
	o.outcomes = append(o.outcomes, outcome)
}

func TestTenantRedirectsRootToStorefront(t *testing.T) {
	store := &tenant.Context{VendorID: uuid.New(), Slug: "acme", StoreName: "Acme"}
	rec := &outcomeRecorder{}
	handler := Tenant(stubResolver{store: store}, rec, &stubPages{}, nil)(okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://acme.shop.test/", nil)
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/store/acme" {
		t.Fatalf("unexpected location %q", loc)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != metrics.TenantResolved {
		t.Fatalf("unexpected outcomes %v", rec.outcomes)
	}
}

func TestTenantAttachesContext(t *testing.T) {
	store := &tenant.Context{VendorID: uuid.New(), Slug: "acme"}
	var seen *tenant.Context
	handler := Tenant(stubResolver{store: store}, nil, &stubPages{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = tenant.FromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://acme.shop.test/cart/acme", nil))

	if seen == nil || seen.VendorID != store.VendorID {
		t.Fatalf("expected tenant context, got %+v", seen)
	}
}

func TestTenantUnknownSubdomainStopsRequest(t *testing.T) {
	pages := &stubPages{}
	rec := &outcomeRecorder{}
	called := false
	resolver := stubResolver{err: pkgerrors.New(pkgerrors.CodeNotFound, "store not found")}
	handler := Tenant(resolver, rec, pages, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://ghost.shop.test/store/ghost", nil))

	if called {
		t.Fatalf("downstream handler must not run")
	}
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != metrics.TenantUnknown {
		t.Fatalf("unexpected outcomes %v", rec.outcomes)
	}
}

func TestTenantBareHostPassesThrough(t *testing.T) {
	rec := &outcomeRecorder{}
	var seen *tenant.Context
	called := false
	handler := Tenant(stubResolver{}, rec, &stubPages{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen = tenant.FromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://shop.test/", nil))

	if !called || seen != nil {
		t.Fatalf("expected pass-through without tenant (called=%v tenant=%v)", called, seen)
	}
	if rec.outcomes[0] != metrics.TenantBare {
		t.Fatalf("unexpected outcomes %v", rec.outcomes)
	}
}
