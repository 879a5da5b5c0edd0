package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
)

const (
	dashboardPath = "/vendors/dashboard"
	loginPath     = "/vendors/login"
	signupPath    = "/vendors/signup"
)

type loginService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.Session, error)
	Logout(ctx context.Context, accessID string) error
}

type signupService interface {
	Signup(ctx context.Context, req auth.SignupRequest) (*auth.SignupResult, error)
}

type vendorSessions interface {
	SetAccessToken(w http.ResponseWriter, r *http.Request, token string) error
	ClearAccessToken(w http.ResponseWriter, r *http.Request) error
	flasher
}

// VendorAuthDeps groups what the signup, login and logout handlers need.
type VendorAuthDeps struct {
	Auth     loginService
	Signup   signupService
	Sessions vendorSessions
	View     *responses.View
	Logger   *logger.Logger
}

type signupForm struct {
	Username  string `form:"username" validate:"required,max=150"`
	Email     string `form:"email" validate:"omitempty,email,max=254"`
	Password  string `form:"password" validate:"required,min=8"`
	StoreName string `form:"store_name" validate:"required,max=100"`
}

func (d VendorAuthDeps) startSession(w http.ResponseWriter, r *http.Request, username, password string) error {
	session, err := d.Auth.Login(r.Context(), auth.LoginRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	if err := d.Sessions.SetAccessToken(w, r, session.AccessToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store session")
	}
	return nil
}

// safeNext keeps post-login redirects on this site.
func safeNext(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return dashboardPath
	}
	return raw
}

// SignupForm renders the store registration form.
func SignupForm(deps VendorAuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.View.Page(w, r, http.StatusOK, "vendors/signup", responses.Data{
			"Title":  "Open your store",
			"Form":   signupForm{},
			"Errors": map[string]string{},
		})
	}
}

// Signup creates the account and storefront, then signs the vendor in.
func Signup(deps VendorAuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseForm(w, r); err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		form := signupForm{
			Username:  validators.FormString(r, "username", 0),
			Email:     validators.FormString(r, "email", 0),
			Password:  r.PostFormValue("password"),
			StoreName: validators.FormString(r, "store_name", 0),
		}
		rerender := func(errs map[string]string) {
			form.Password = ""
			deps.View.Page(w, r, http.StatusBadRequest, "vendors/signup", responses.Data{
				"Title":  "Open your store",
				"Form":   form,
				"Errors": errs,
			})
		}
		if err := validators.Struct(&form); err != nil {
			rerender(validators.FieldErrors(err))
			return
		}

		result, err := deps.Signup.Signup(r.Context(), auth.SignupRequest{
			Username:  form.Username,
			Email:     form.Email,
			Password:  form.Password,
			StoreName: form.StoreName,
		})
		if err != nil {
			switch pkgerrors.CodeOf(err) {
			case pkgerrors.CodeConflict:
				flash(w, r, deps.Sessions, deps.Logger, websession.FlashError, pkgerrors.As(err).Message())
				redirect(w, r, signupPath)
			case pkgerrors.CodeValidation:
				rerender(map[string]string{"form": pkgerrors.As(err).Message()})
			default:
				deps.View.Error(r.Context(), deps.Logger, w, r, err)
			}
			return
		}
		if deps.Logger != nil {
			deps.Logger.Info(deps.Logger.WithVendor(r.Context(), result.VendorID.String(), result.Slug), "vendor.signup")
		}

		if err := deps.startSession(w, r, form.Username, form.Password); err != nil {
			flash(w, r, deps.Sessions, deps.Logger, websession.FlashSuccess, "Your store is ready. Please log in.")
			redirect(w, r, loginPath)
			return
		}
		flash(w, r, deps.Sessions, deps.Logger, websession.FlashSuccess, "Welcome! Your store is ready.")
		redirect(w, r, dashboardPath)
	}
}

// LoginForm renders the vendor login form.
func LoginForm(deps VendorAuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.PrincipalFromContext(r.Context()) != nil {
			redirect(w, r, dashboardPath)
			return
		}
		deps.View.Page(w, r, http.StatusOK, "vendors/login", responses.Data{
			"Title": "Vendor login",
			"Next":  r.URL.Query().Get("next"),
		})
	}
}

// Login checks credentials and stores the access token in the session cookie.
func Login(deps VendorAuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseForm(w, r); err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		username := validators.FormString(r, "username", 150)
		err := deps.startSession(w, r, username, r.PostFormValue("password"))
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
				flash(w, r, deps.Sessions, deps.Logger, websession.FlashError, "Invalid username or password.")
				redirect(w, r, loginPath)
				return
			}
			deps.View.Error(r.Context(), deps.Logger, w, r, err)
			return
		}
		redirect(w, r, safeNext(r.PostFormValue("next")))
	}
}

// Logout revokes the session and forgets the access token. The shopper cart
// token is kept.
func Logout(deps VendorAuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p := auth.PrincipalFromContext(r.Context()); p != nil && p.AccessID != "" {
			if err := deps.Auth.Logout(r.Context(), p.AccessID); err != nil && deps.Logger != nil {
				deps.Logger.Warn(deps.Logger.WithField(r.Context(), "error", err.Error()), "auth.logout_revoke_failed")
			}
		}
		if err := deps.Sessions.ClearAccessToken(w, r); err != nil {
			deps.View.Error(r.Context(), deps.Logger, w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear session"))
			return
		}
		flash(w, r, deps.Sessions, deps.Logger, websession.FlashInfo, "You have been logged out.")
		redirect(w, r, "/")
	}
}
