package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitPrice(t *testing.T) {
	base := decimal.RequireFromString("80")

	assert.True(t, UnitPrice(base, SizeRegular).Equal(decimal.RequireFromString("80")))
	assert.True(t, UnitPrice(base, SizeLarge).Equal(decimal.RequireFromString("120")))
}

func TestUnitPriceKeepsCents(t *testing.T) {
	base := decimal.RequireFromString("49.99")
	got := UnitPrice(base, SizeLarge)
	assert.Equal(t, "74.985", got.String())
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize("Large")
	require.NoError(t, err)
	assert.Equal(t, SizeLarge, s)

	s, err = ParseSize("")
	require.NoError(t, err)
	assert.Equal(t, SizeRegular, s)

	_, err = ParseSize("Jumbo")
	assert.Error(t, err)
}
