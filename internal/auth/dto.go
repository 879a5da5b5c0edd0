package auth

import (
	"github.com/google/uuid"
)

// SignupRequest carries the vendor registration form.
type SignupRequest struct {
	Username  string `validate:"required,max=150"`
	Email     string `validate:"omitempty,email"`
	Password  string `validate:"required"`
	StoreName string `validate:"required,max=100"`
}

// SignupResult identifies the account and storefront created at signup.
type SignupResult struct {
	UserID   uuid.UUID
	VendorID uuid.UUID
	Slug     string
}

// LoginRequest captures the credentials posted to the login form.
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Session is a freshly established vendor login.
type Session struct {
	AccessToken string
	AccessID    string
	UserID      uuid.UUID
	VendorID    uuid.UUID
	Username    string
}

// Principal is the authenticated vendor behind a request.
type Principal struct {
	UserID   uuid.UUID
	VendorID uuid.UUID
	Username string
	AccessID string
}
