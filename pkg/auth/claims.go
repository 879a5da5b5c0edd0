package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a vendor session token.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	VendorID uuid.UUID
	Username string
	JTI      string
}

// AccessTokenClaims represents the typed JWT stored in the vendor's session cookie.
type AccessTokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	VendorID uuid.UUID `json:"vendor_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}
