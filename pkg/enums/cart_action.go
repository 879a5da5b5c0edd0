package enums

import (
	"fmt"
	"strings"
)

// CartAction is the quantity change requested for a cart line.
type CartAction string

const (
	CartActionIncrease CartAction = "increase"
	CartActionDecrease CartAction = "decrease"
)

func (a CartAction) String() string {
	return string(a)
}

func (a CartAction) IsValid() bool {
	return a == CartActionIncrease || a == CartActionDecrease
}

// ParseCartAction accepts the form value case-insensitively.
func ParseCartAction(value string) (CartAction, error) {
	action := CartAction(strings.ToLower(strings.TrimSpace(value)))
	if !action.IsValid() {
		return "", fmt.Errorf("invalid cart action %q", value)
	}
	return action, nil
}
