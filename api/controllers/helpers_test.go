package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
	"github.com/angelmondragon/storefront-backend/web"
)

func newTestView(sessions *websession.Store) *responses.View {
	return responses.NewView(responses.ViewOptions{
		Templates: web.Templates,
		Formatter: money.NewFormatter("$"),
		Flashes:   sessions,
	})
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newTestSessions(t *testing.T) *websession.Store {
	t.Helper()
	store, err := websession.NewStore(config.SessionConfig{
		CookieName: "sf_test",
		AuthKey:    "0123456789abcdef0123456789abcdef",
		MaxAge:     time.Hour,
	})
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	return store
}

func testVendor(slug string) *models.Vendor {
	s := slug
	whatsapp := "+1 555 0100"
	return &models.Vendor{ID: uuid.New(), UserID: uuid.New(), StoreName: "Acme Store", Slug: &s, WhatsAppNumber: &whatsapp}
}

type stubVendors struct {
	bySlug map[string]*models.Vendor
	list   []models.Vendor
	err    error
}

func (s stubVendors) GetBySlug(ctx context.Context, slug string) (*models.Vendor, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.bySlug[slug]; ok {
		return v, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
}

func (s stubVendors) List(ctx context.Context) ([]models.Vendor, error) {
	return s.list, s.err
}

// withRouteParams attaches chi URL parameters to req.
func withRouteParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func ajax(req *http.Request) *http.Request {
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	return req
}

// withShopperCookie issues a shopper token and copies the cookie onto req.
func withShopperCookie(t *testing.T, sessions *websession.Store, req *http.Request) (*http.Request, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	token, err := sessions.ShopperToken(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("issue shopper token: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req, token
}
