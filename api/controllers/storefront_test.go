package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/tenant"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

type stubCatalog struct {
	items   []models.Product
	filters catalog.Filters
	view    *catalog.ProductView
}

func (s *stubCatalog) List(ctx context.Context, filters catalog.Filters) (*catalog.Page, error) {
	s.filters = filters
	return &catalog.Page{
		Items:  s.items,
		Window: pagination.Resolve(pagination.Params{Page: filters.Page}, int64(len(s.items))),
	}, nil
}

func (s *stubCatalog) VendorCategories(ctx context.Context, vendorID uuid.UUID) ([]models.Category, error) {
	return []models.Category{{ID: uuid.New(), Name: "Shoes"}}, nil
}

func (s *stubCatalog) ProductForStorefront(ctx context.Context, store *tenant.Context, productID uuid.UUID) (*catalog.ProductView, error) {
	return s.view, nil
}

type fixedCount int

func (c fixedCount) ItemCount(ctx context.Context, identity cart.Identity, vendorID uuid.UUID) (int, error) {
	return int(c), nil
}

func storefrontFixture(t *testing.T) (StorefrontDeps, *models.Vendor, *stubCatalog) {
	t.Helper()
	vendor := testVendor("acme")
	sessions := newTestSessions(t)
	cat := &stubCatalog{items: []models.Product{
		{ID: uuid.New(), VendorID: vendor.ID, Name: "Red Sneaker", Price: decimal.RequireFromString("49.90"), IsActive: true},
	}}
	deps := StorefrontDeps{
		Vendors:  stubVendors{bySlug: map[string]*models.Vendor{"acme": vendor}},
		Catalog:  cat,
		Carts:    fixedCount(2),
		Sessions: sessions,
		View:     newTestView(sessions),
		Logger:   newTestLogger(),
	}
	return deps, vendor, cat
}

func TestStorefrontRendersCatalogPage(t *testing.T) {
	deps, vendor, cat := storefrontFixture(t)

	req := withRouteParams(httptest.NewRequest(http.MethodGet, "/store/acme?q=red&sort=price_asc", nil), map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	Storefront(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	body := resp.Body.String()
	for _, want := range []string{"<html", "Acme Store", "Red Sneaker", "$49.90", "Shoes"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
	if cat.filters.VendorID == nil || *cat.filters.VendorID != vendor.ID {
		t.Fatalf("catalog must be scoped to the vendor, got %+v", cat.filters.VendorID)
	}
	if cat.filters.Query != "red" {
		t.Fatalf("unexpected query %q", cat.filters.Query)
	}
}

func TestStorefrontAJAXReturnsGridOnly(t *testing.T) {
	deps, _, _ := storefrontFixture(t)

	req := withRouteParams(ajax(httptest.NewRequest(http.MethodGet, "/store/acme", nil)), map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	Storefront(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	body := resp.Body.String()
	if strings.Contains(body, "<html") {
		t.Fatalf("fragment must not include the layout")
	}
	if !strings.Contains(body, "Red Sneaker") {
		t.Fatalf("expected product in grid: %s", body)
	}
}

func TestStorefrontUnknownVendorIsNotFound(t *testing.T) {
	deps, _, _ := storefrontFixture(t)

	req := withRouteParams(httptest.NewRequest(http.MethodGet, "/store/ghost", nil), map[string]string{"vendorSlug": "ghost"})
	resp := httptest.NewRecorder()
	Storefront(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestStorefrontRejectsSlugOfAnotherTenant(t *testing.T) {
	deps, _, _ := storefrontFixture(t)
	other := testVendor("other")

	req := httptest.NewRequest(http.MethodGet, "/store/acme", nil)
	req = req.WithContext(tenant.WithContext(req.Context(), tenant.FromVendor(other)))
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	Storefront(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-tenant slug got %d", resp.Code)
	}
}

func TestProductDetailShowsEnquiryLink(t *testing.T) {
	deps, vendor, cat := storefrontFixture(t)
	product := models.Product{ID: uuid.New(), VendorID: vendor.ID, Name: "Blue Hat", Price: decimal.RequireFromString("12"), Stock: 3, IsActive: true}
	cat.view = &catalog.ProductView{Product: product, EnquiryLink: "https://wa.me/15550100?text=Hello"}

	req := withRouteParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{
		"vendorSlug": "acme",
		"productID":  product.ID.String(),
	})
	resp := httptest.NewRecorder()
	ProductDetail(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Blue Hat") || !strings.Contains(body, "https://wa.me/15550100?text=Hello") {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestProductDetailMalformedIDIsNotFound(t *testing.T) {
	deps, _, _ := storefrontFixture(t)

	req := withRouteParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{
		"vendorSlug": "acme",
		"productID":  "17",
	})
	resp := httptest.NewRecorder()
	ProductDetail(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestHomeListsVendors(t *testing.T) {
	sessions := newTestSessions(t)
	vendor := testVendor("acme")
	handler := Home(stubVendors{list: []models.Vendor{*vendor}}, newTestView(sessions), newTestLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `href="/store/acme"`) {
		t.Fatalf("expected storefront link: %s", resp.Body.String())
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"

	resp := httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"db": stubPinger{}}, newTestLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"redis": stubPinger{err: context.DeadlineExceeded}}, newTestLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
