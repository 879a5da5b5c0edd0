package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
)

type stubCarts struct {
	identities []cart.Identity
	added      *models.CartItem
	count      int
	update     *cart.UpdateResult
	view       *cart.View
	err        error
	countCalls int
}

func (s *stubCarts) record(identity cart.Identity) {
	s.identities = append(s.identities, identity)
}

func (s *stubCarts) View(ctx context.Context, identity cart.Identity, vendorID uuid.UUID) (*cart.View, error) {
	s.record(identity)
	if s.view == nil {
		return &cart.View{Total: decimal.Zero}, s.err
	}
	return s.view, s.err
}

func (s *stubCarts) AddItem(ctx context.Context, identity cart.Identity, vendorID, productID uuid.UUID) (*models.CartItem, int, error) {
	s.record(identity)
	return s.added, s.count, s.err
}

func (s *stubCarts) UpdateQuantity(ctx context.Context, identity cart.Identity, vendorID, itemID uuid.UUID, action enums.CartAction) (*cart.UpdateResult, error) {
	s.record(identity)
	return s.update, s.err
}

func (s *stubCarts) RemoveItem(ctx context.Context, identity cart.Identity, vendorID, itemID uuid.UUID) error {
	s.record(identity)
	return s.err
}

func (s *stubCarts) ItemCount(ctx context.Context, identity cart.Identity, vendorID uuid.UUID) (int, error) {
	s.countCalls++
	s.record(identity)
	return s.count, s.err
}

func (s *stubCarts) Suggested(ctx context.Context, vendorID uuid.UUID, c *models.Cart, limit int) ([]models.Product, error) {
	return nil, nil
}

func cartFixture(t *testing.T, carts *stubCarts) (CartDeps, *models.Vendor) {
	t.Helper()
	vendor := testVendor("acme")
	sessions := newTestSessions(t)
	return CartDeps{
		Vendors:  stubVendors{bySlug: map[string]*models.Vendor{"acme": vendor}},
		Carts:    carts,
		Sessions: sessions,
		View:     newTestView(sessions),
		Logger:   newTestLogger(),
	}, vendor
}

func TestCartAddAJAXReturnsCountAndSubtotal(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Widget", Price: decimal.RequireFromString("10")}
	carts := &stubCarts{added: &models.CartItem{Product: product, Quantity: 2}, count: 3}
	deps, _ := cartFixture(t, carts)

	req := ajax(httptest.NewRequest(http.MethodPost, "/cart/acme/add/"+product.ID.String(), nil))
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme", "productID": product.ID.String()})
	resp := httptest.NewRecorder()
	CartAdd(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var body addToCartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.CartCount != 3 || body.Subtotal != "$20.00" {
		t.Fatalf("unexpected body %+v", body)
	}
	if !strings.Contains(body.Message, "Widget") {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if len(carts.identities) != 1 || carts.identities[0].SessionToken == "" {
		t.Fatalf("expected an anonymous session identity, got %+v", carts.identities)
	}
	if len(resp.Result().Cookies()) == 0 {
		t.Fatalf("expected the shopper cookie to be issued")
	}
}

func TestCartAddFormRedirectsToCart(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Widget", Price: decimal.RequireFromString("10")}
	carts := &stubCarts{added: &models.CartItem{Product: product, Quantity: 1}, count: 1}
	deps, _ := cartFixture(t, carts)

	req := withRouteParams(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"vendorSlug": "acme", "productID": product.ID.String()})
	resp := httptest.NewRecorder()
	CartAdd(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "/cart/acme" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestCartAddReusesExistingShopperToken(t *testing.T) {
	productID := uuid.New()
	carts := &stubCarts{added: &models.CartItem{Product: &models.Product{Name: "Widget"}}, count: 1}
	deps, _ := cartFixture(t, carts)
	sessions := deps.Sessions.(*websession.Store)

	req := ajax(httptest.NewRequest(http.MethodPost, "/", nil))
	req, token := withShopperCookie(t, sessions, req)
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme", "productID": productID.String()})
	CartAdd(deps).ServeHTTP(httptest.NewRecorder(), req)

	if len(carts.identities) != 1 || carts.identities[0].SessionToken != token {
		t.Fatalf("expected token %q, got %+v", token, carts.identities)
	}
}

func TestCartAddMissingProductIsNotFoundJSON(t *testing.T) {
	carts := &stubCarts{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	deps, _ := cartFixture(t, carts)

	req := ajax(httptest.NewRequest(http.MethodPost, "/", nil))
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme", "productID": uuid.NewString()})
	resp := httptest.NewRecorder()
	CartAdd(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error, got %q", ct)
	}
}

func TestCartUpdateRejectsUnknownAction(t *testing.T) {
	carts := &stubCarts{}
	deps, _ := cartFixture(t, carts)

	req := ajax(formRequest(http.MethodPost, "/", url.Values{"action": {"explode"}}))
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme", "itemID": uuid.NewString()})
	resp := httptest.NewRecorder()
	CartUpdate(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(carts.identities) != 0 {
		t.Fatalf("service must not be called")
	}
}

func TestCartUpdateReportsQuantityOrRemoval(t *testing.T) {
	carts := &stubCarts{update: &cart.UpdateResult{Quantity: 2, Subtotal: decimal.RequireFromString("15"), CartCount: 2}}
	deps, _ := cartFixture(t, carts)

	send := func() map[string]any {
		req := ajax(formRequest(http.MethodPost, "/", url.Values{"action": {"decrease"}}))
		req = withRouteParams(req, map[string]string{"vendorSlug": "acme", "itemID": uuid.NewString()})
		resp := httptest.NewRecorder()
		CartUpdate(deps).ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body
	}

	body := send()
	if body["quantity"] != float64(2) || body["subtotal"] != "$15.00" {
		t.Fatalf("unexpected body %v", body)
	}
	if _, ok := body["removed"]; ok {
		t.Fatalf("removed must be absent while the item remains: %v", body)
	}

	carts.update = &cart.UpdateResult{Removed: true}
	body = send()
	if body["removed"] != true {
		t.Fatalf("expected removed=true, got %v", body)
	}
	if _, ok := body["quantity"]; ok {
		t.Fatalf("quantity must be absent after removal: %v", body)
	}
}

func TestCartRemoveAJAX(t *testing.T) {
	carts := &stubCarts{}
	deps, _ := cartFixture(t, carts)

	req := ajax(httptest.NewRequest(http.MethodPost, "/", nil))
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme", "itemID": uuid.NewString()})
	resp := httptest.NewRecorder()
	CartRemove(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || strings.TrimSpace(resp.Body.String()) != `{"success":true}` {
		t.Fatalf("unexpected response %d %s", resp.Code, resp.Body.String())
	}
}

func TestCartCountWithoutSessionDoesNotTouchCarts(t *testing.T) {
	carts := &stubCarts{count: 9}
	deps, _ := cartFixture(t, carts)

	req := withRouteParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	CartCount(deps).ServeHTTP(resp, req)

	if strings.TrimSpace(resp.Body.String()) != `{"cart_count":0}` {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if carts.countCalls != 0 {
		t.Fatalf("count must not be queried without a session")
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatalf("count must not issue a session cookie")
	}
}

func TestCartViewRendersItems(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Widget", Price: decimal.RequireFromString("10")}
	item := models.CartItem{ID: uuid.New(), Product: product, Quantity: 2}
	carts := &stubCarts{view: &cart.View{
		Cart:  &models.Cart{ID: uuid.New()},
		Items: []models.CartItem{item},
		Total: decimal.RequireFromString("20"),
		Count: 2,
	}}
	deps, _ := cartFixture(t, carts)

	req := withRouteParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	CartView(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	body := resp.Body.String()
	for _, want := range []string{"Widget", "$20.00", "/cart/acme/update/" + item.ID.String(), "/cart/acme/checkout"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in cart page", want)
		}
	}
}
