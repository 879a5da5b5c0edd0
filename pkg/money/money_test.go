package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(1500), ToCents(decimal.RequireFromString("15")))
	assert.Equal(t, int64(1999), ToCents(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(1000), ToCents(decimal.RequireFromString("9.995")))
	assert.Equal(t, int64(0), ToCents(decimal.Zero))
}

func TestFromCentsRoundTrip(t *testing.T) {
	amount := FromCents(2550)
	assert.True(t, amount.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, int64(2550), ToCents(amount))
}

func TestParse(t *testing.T) {
	amount, err := Parse(" 10.5 ")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("10.50")))

	_, err = Parse("")
	assert.Error(t, err)
	_, err = Parse("ten")
	assert.Error(t, err)
}

func TestFormatter(t *testing.T) {
	f := NewFormatter("$")
	assert.Equal(t, "$25.00", f.Format(decimal.NewFromInt(25)))
	assert.Equal(t, "$1,234.50", f.FormatCents(123450))
}
