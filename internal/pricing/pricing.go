// Package pricing holds the size-based price rule. Order totals are always
// recomputed from this package against the product table; client-sent prices
// are never used.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Size string

const (
	SizeRegular Size = "Regular"
	SizeLarge   Size = "Large"
)

var largeMultiplier = decimal.RequireFromString("1.5")

func (s Size) Valid() bool {
	return s == SizeRegular || s == SizeLarge
}

// ParseSize maps the wire value to a Size. The empty string means Regular,
// matching carts built before the size picker existed.
func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case SizeRegular, SizeLarge:
		return Size(s), nil
	case "":
		return SizeRegular, nil
	}
	return "", fmt.Errorf("unknown size %q", s)
}

// UnitPrice applies the size multiplier to a product's base price:
// Large is base x 1.5, anything else is the base price.
func UnitPrice(base decimal.Decimal, size Size) decimal.Decimal {
	if size == SizeLarge {
		return base.Mul(largeMultiplier)
	}
	return base
}
