package checkout

import "strings"

// CustomerInput is the contact block captured on the checkout form.
type CustomerInput struct {
	Name    string
	Phone   string
	Address string
	Email   string
	Notes   string
}

func (in CustomerInput) normalized() CustomerInput {
	return CustomerInput{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Notes:   strings.TrimSpace(in.Notes),
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
