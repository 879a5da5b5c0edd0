package websession

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(config.SessionConfig{
		CookieName: "sf_test",
		AuthKey:    "0123456789abcdef0123456789abcdef",
		EncryptKey: "abcdef0123456789",
		MaxAge:     time.Hour,
	})
	require.NoError(t, err)
	return store
}

// carryCookies copies response cookies onto a fresh request.
func carryCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNewStoreRequiresAuthKey(t *testing.T) {
	_, err := NewStore(config.SessionConfig{})
	require.Error(t, err)
}

func TestShopperTokenIsStableAcrossRequests(t *testing.T) {
	store := newTestStore(t)

	rec := httptest.NewRecorder()
	first, err := store.ShopperToken(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotEmpty(t, first)

	req := carryCookies(rec)
	assert.Equal(t, first, store.PeekShopperToken(req))

	second, err := store.ShopperToken(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPeekShopperTokenWithoutCookie(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.PeekShopperToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestClearAccessTokenKeepsShopperToken(t *testing.T) {
	store := newTestStore(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	token, err := store.ShopperToken(rec, req)
	require.NoError(t, err)

	req = carryCookies(rec)
	rec = httptest.NewRecorder()
	require.NoError(t, store.SetAccessToken(rec, req, "jwt-value"))

	req = carryCookies(rec)
	assert.Equal(t, "jwt-value", store.AccessToken(req))

	rec = httptest.NewRecorder()
	require.NoError(t, store.ClearAccessToken(rec, req))

	req = carryCookies(rec)
	assert.Empty(t, store.AccessToken(req))
	assert.Equal(t, token, store.PeekShopperToken(req))
}

func TestFlashesAreDrainedOnce(t *testing.T) {
	store := newTestStore(t)

	rec := httptest.NewRecorder()
	require.NoError(t, store.AddFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil), FlashSuccess, "Saved"))

	req := carryCookies(rec)
	rec = httptest.NewRecorder()
	flashes := store.Flashes(rec, req)
	require.Len(t, flashes, 1)
	assert.Equal(t, Flash{Level: FlashSuccess, Message: "Saved"}, flashes[0])

	req = carryCookies(rec)
	assert.Empty(t, store.Flashes(httptest.NewRecorder(), req))
}

func TestTamperedCookieStartsFreshSession(t *testing.T) {
	store := newTestStore(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sf_test", Value: "garbage"})

	token, err := store.ShopperToken(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
