package cart

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Identity names the owner of a cart: an account or an anonymous session token.
// Exactly one of the two must be set.
type Identity struct {
	UserID       *uuid.UUID
	SessionToken string
}

// ForUser returns an account identity.
func ForUser(userID uuid.UUID) Identity {
	return Identity{UserID: &userID}
}

// ForSession returns an anonymous identity.
func ForSession(token string) Identity {
	return Identity{SessionToken: token}
}

// Validate rejects identities with neither or both owners set.
func (i Identity) Validate() error {
	hasUser := i.UserID != nil && *i.UserID != uuid.Nil
	hasSession := strings.TrimSpace(i.SessionToken) != ""
	switch {
	case hasUser && hasSession:
		return fmt.Errorf("cart identity must be an account or a session, not both")
	case !hasUser && !hasSession:
		return fmt.Errorf("cart identity is required")
	}
	return nil
}

// Key is the value stored in carts.identity_key.
func (i Identity) Key() string {
	if i.UserID != nil && *i.UserID != uuid.Nil {
		return "user:" + i.UserID.String()
	}
	return "session:" + strings.TrimSpace(i.SessionToken)
}
