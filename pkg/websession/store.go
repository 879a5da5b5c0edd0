// Package websession keeps per-browser state in a signed cookie: the anonymous
// shopper token, the vendor access token and flash messages.
package websession

import (
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	shopperTokenKey = "shopper_token"
	accessTokenKey  = "access_token"
)

// Flash levels understood by the templates.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

type Store struct {
	cookies *sessions.CookieStore
	name    string
}

func init() {
	gob.Register(Flash{})
}

func NewStore(cfg config.SessionConfig) (*Store, error) {
	if cfg.AuthKey == "" {
		return nil, errors.New("session auth key required")
	}
	name := cfg.CookieName
	if name == "" {
		name = "storefront_session"
	}
	keys := [][]byte{[]byte(cfg.AuthKey)}
	if cfg.EncryptKey != "" {
		keys = append(keys, []byte(cfg.EncryptKey))
	}
	cookies := sessions.NewCookieStore(keys...)
	cookies.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cookies, name: name}, nil
}

// session returns the request session. A cookie that fails to decode (rotated
// keys, tampering) yields a fresh session instead of an error.
func (s *Store) session(r *http.Request) *sessions.Session {
	sess, _ := s.cookies.Get(r, s.name)
	if sess == nil {
		sess = sessions.NewSession(s.cookies, s.name)
		opts := *s.cookies.Options
		sess.Options = &opts
		sess.IsNew = true
	}
	return sess
}

// ShopperToken returns the anonymous cart token for the browser, issuing and
// persisting a new one on first use.
func (s *Store) ShopperToken(w http.ResponseWriter, r *http.Request) (string, error) {
	sess := s.session(r)
	if token, ok := sess.Values[shopperTokenKey].(string); ok && token != "" {
		return token, nil
	}
	token := uuid.NewString()
	sess.Values[shopperTokenKey] = token
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save shopper token: %w", err)
	}
	return token, nil
}

// PeekShopperToken returns the token if one was already issued.
func (s *Store) PeekShopperToken(r *http.Request) string {
	token, _ := s.session(r).Values[shopperTokenKey].(string)
	return token
}

func (s *Store) AccessToken(r *http.Request) string {
	token, _ := s.session(r).Values[accessTokenKey].(string)
	return token
}

func (s *Store) SetAccessToken(w http.ResponseWriter, r *http.Request, token string) error {
	sess := s.session(r)
	sess.Values[accessTokenKey] = token
	return sess.Save(r, w)
}

// ClearAccessToken drops the vendor login but keeps the shopper token so the
// anonymous cart survives a logout.
func (s *Store) ClearAccessToken(w http.ResponseWriter, r *http.Request) error {
	sess := s.session(r)
	delete(sess.Values, accessTokenKey)
	return sess.Save(r, w)
}

func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, level, message string) error {
	sess := s.session(r)
	sess.AddFlash(Flash{Level: level, Message: message})
	return sess.Save(r, w)
}

// Flashes drains pending flash messages.
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := s.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]Flash, 0, len(raw))
	for _, item := range raw {
		if flash, ok := item.(Flash); ok {
			out = append(out, flash)
		}
	}
	_ = sess.Save(r, w)
	return out
}
