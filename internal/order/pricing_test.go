package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPriceItemsComputesAuthoritativeTotal(t *testing.T) {
	// Regular cupcake (50) x 2 plus Large donut (80 -> 120) x 1 = 220
	basePrices := map[int64]decimal.Decimal{1: dec("50"), 2: dec("80")}
	items := []CheckoutItem{
		{ProductID: 1, Quantity: 2, Size: "Regular"},
		{ProductID: 2, Quantity: 1, Size: "Large"},
	}

	priced, total, err := priceItems(items, basePrices)
	require.NoError(t, err)
	require.Len(t, priced, 2)
	assert.True(t, total.Equal(dec("220")))
	assert.True(t, priced[0].UnitPrice.Equal(dec("50")))
	assert.True(t, priced[1].UnitPrice.Equal(dec("120")))
}

func TestPriceItemsIgnoresWhateverTheClientClaims(t *testing.T) {
	// the request type has no price field at all; the only inputs are the
	// authoritative base prices
	basePrices := map[int64]decimal.Decimal{5: dec("100")}
	_, total, err := priceItems([]CheckoutItem{{ProductID: 5, Quantity: 1}}, basePrices)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("100")))
}

func TestPriceItemsMissingProduct(t *testing.T) {
	basePrices := map[int64]decimal.Decimal{1: dec("50")}
	items := []CheckoutItem{
		{ProductID: 1, Quantity: 2, Size: "Regular"},
		{ProductID: 999, Quantity: 1, Size: "Regular"},
	}

	_, _, err := priceItems(items, basePrices)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPriceItemsRejectsBadInput(t *testing.T) {
	basePrices := map[int64]decimal.Decimal{1: dec("50")}

	_, _, err := priceItems([]CheckoutItem{{ProductID: 1, Quantity: 0}}, basePrices)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = priceItems([]CheckoutItem{{ProductID: 1, Quantity: 1, Size: "Jumbo"}}, basePrices)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPriceItemsEmptySizeMeansRegular(t *testing.T) {
	basePrices := map[int64]decimal.Decimal{1: dec("50")}
	priced, total, err := priceItems([]CheckoutItem{{ProductID: 1, Quantity: 3}}, basePrices)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("150")))
	assert.Equal(t, "Regular", string(priced[0].Size))
}
