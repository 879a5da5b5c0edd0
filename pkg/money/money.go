package money

import (
	"fmt"
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToCents converts a currency amount to minor units, rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(hundred).IntPart()
}

// FromCents converts minor units back to a currency amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Parse reads a user-supplied price such as "12.50". Blank input is an error.
func Parse(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}

// Formatter renders amounts for templates and outgoing messages.
type Formatter struct {
	ac *accounting.Accounting
}

// NewFormatter builds a two-decimal formatter with the given currency symbol.
func NewFormatter(symbol string) *Formatter {
	return &Formatter{ac: &accounting.Accounting{
		Symbol:    symbol,
		Precision: 2,
		Thousand:  ",",
		Decimal:   ".",
	}}
}

// Format renders a decimal amount, e.g. "$1,234.50".
func (f *Formatter) Format(amount decimal.Decimal) string {
	return f.ac.FormatMoneyDecimal(amount)
}

// FormatCents renders an amount stored in minor units.
func (f *Formatter) FormatCents(cents int64) string {
	return f.Format(FromCents(cents))
}
