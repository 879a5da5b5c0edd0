package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/tenant"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
)

type stubCartViewer struct {
	view *cart.View
}

func (s stubCartViewer) View(ctx context.Context, identity cart.Identity, vendorID uuid.UUID) (*cart.View, error) {
	if s.view == nil {
		return &cart.View{Total: decimal.Zero}, nil
	}
	return s.view, nil
}

type stubCheckout struct {
	order    *models.Order
	err      error
	calls    int
	channel  enums.OrderChannel
	input    checkout.CustomerInput
	identity cart.Identity
}

func (s *stubCheckout) PlaceOrder(ctx context.Context, identity cart.Identity, store *tenant.Context, input checkout.CustomerInput, channel enums.OrderChannel) (*models.Order, error) {
	s.calls++
	s.identity = identity
	s.input = input
	s.channel = channel
	return s.order, s.err
}

func (s *stubCheckout) WhatsAppLink(store *tenant.Context, order *models.Order) (string, error) {
	return "https://wa.me/15550100?text=" + url.QueryEscape("Order "+order.ID.String()), nil
}

func oneItemView() *cart.View {
	product := &models.Product{ID: uuid.New(), Name: "Widget", Price: decimal.RequireFromString("12.50")}
	return &cart.View{
		Items: []models.CartItem{{ID: uuid.New(), Product: product, Quantity: 2}},
		Total: decimal.RequireFromString("25"),
		Count: 2,
	}
}

func checkoutFixture(t *testing.T, view *cart.View, svc *stubCheckout) (CheckoutDeps, *websession.Store) {
	t.Helper()
	vendor := testVendor("acme")
	sessions := newTestSessions(t)
	return CheckoutDeps{
		Vendors:  stubVendors{bySlug: map[string]*models.Vendor{"acme": vendor}},
		Carts:    stubCartViewer{view: view},
		Checkout: svc,
		Sessions: sessions,
		View:     newTestView(sessions),
		Logger:   newTestLogger(),
	}, sessions
}

func validCheckoutValues() url.Values {
	return url.Values{
		"name":    {"Ada Lovelace"},
		"phone":   {"+44 20 7946 0000"},
		"address": {"12 Analytical Row"},
		"email":   {"ada@example.com"},
	}
}

func TestCheckoutFormWithoutSessionRedirectsToCart(t *testing.T) {
	deps, _ := checkoutFixture(t, oneItemView(), &stubCheckout{})

	req := withRouteParams(httptest.NewRequest(http.MethodGet, "/cart/acme/checkout", nil), map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	CheckoutForm(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/cart/acme" {
		t.Fatalf("expected redirect to cart, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
}

func TestCheckoutFormRendersSummary(t *testing.T) {
	deps, sessions := checkoutFixture(t, oneItemView(), &stubCheckout{})

	req, _ := withShopperCookie(t, sessions, httptest.NewRequest(http.MethodGet, "/", nil))
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	CheckoutForm(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	body := resp.Body.String()
	for _, want := range []string{"Widget", "$25.00", "/cart/acme/checkout/whatsapp"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in checkout page", want)
		}
	}
}

func TestCheckoutSubmitEmptyCartRedirects(t *testing.T) {
	svc := &stubCheckout{err: checkout.ErrEmptyCart}
	deps, sessions := checkoutFixture(t, oneItemView(), svc)

	req, _ := withShopperCookie(t, sessions, formRequest(http.MethodPost, "/", validCheckoutValues()))
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	CheckoutSubmit(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/cart/acme" {
		t.Fatalf("expected redirect to cart, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
}

func TestCheckoutSubmitMissingFieldsRerendersForm(t *testing.T) {
	svc := &stubCheckout{}
	deps, sessions := checkoutFixture(t, oneItemView(), svc)

	values := validCheckoutValues()
	values.Del("phone")
	req, _ := withShopperCookie(t, sessions, formRequest(http.MethodPost, "/", values))
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	CheckoutSubmit(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "phone is required") {
		t.Fatalf("expected field error in body: %s", body)
	}
	if !strings.Contains(body, `value="Ada Lovelace"`) {
		t.Fatalf("expected submitted values to be kept")
	}
	if svc.calls != 0 {
		t.Fatalf("order must not be placed")
	}
}

func TestCheckoutSubmitRendersConfirmation(t *testing.T) {
	order := &models.Order{
		ID:           uuid.New(),
		CustomerName: "Ada Lovelace",
		TotalCents:   2500,
		Items:        []models.OrderItem{{ProductName: "Widget", UnitPriceCents: 1250, Quantity: 2}},
	}
	svc := &stubCheckout{order: order}
	deps, sessions := checkoutFixture(t, oneItemView(), svc)

	req, token := withShopperCookie(t, sessions, formRequest(http.MethodPost, "/", validCheckoutValues()))
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	CheckoutSubmit(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Thank you, Ada Lovelace!") || !strings.Contains(body, "$25.00") {
		t.Fatalf("unexpected confirmation: %s", body)
	}
	if svc.channel != enums.OrderChannelStorefront || svc.identity.SessionToken != token {
		t.Fatalf("unexpected call channel=%s identity=%+v", svc.channel, svc.identity)
	}
	if svc.input.Email != "ada@example.com" || svc.input.Address != "12 Analytical Row" {
		t.Fatalf("unexpected input %+v", svc.input)
	}
}

func TestCheckoutWhatsAppRedirectsToChat(t *testing.T) {
	svc := &stubCheckout{order: &models.Order{ID: uuid.New(), CustomerName: "Ada"}}
	deps, sessions := checkoutFixture(t, oneItemView(), svc)

	req, _ := withShopperCookie(t, sessions, formRequest(http.MethodPost, "/", validCheckoutValues()))
	req = withRouteParams(req, map[string]string{"vendorSlug": "acme"})
	resp := httptest.NewRecorder()
	CheckoutWhatsApp(deps).ServeHTTP(resp, req)

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); !strings.HasPrefix(loc, "https://wa.me/15550100?text=") {
		t.Fatalf("unexpected location %q", loc)
	}
	if svc.channel != enums.OrderChannelWhatsApp {
		t.Fatalf("expected whatsapp channel, got %s", svc.channel)
	}
}
