// Package cart is the client-side shopping cart engine: line identity and
// merge rules, size-based price derivation, selection bookkeeping and a
// durable snapshot so the cart survives restarts. It never talks to the
// network; checkout serializes SelectedLines and the caller clears the
// purchased subset after the server confirms.
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/flourever/storefront/internal/pricing"
)

// Product is the slice of the catalog entry the cart needs at add time.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Line is one (product, size) cart entry. At most one Line exists per
// (ProductID, Size) pair; additions and size changes that collide merge
// quantities instead of duplicating.
type Line struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Size      pricing.Size    `json:"size"`
	Quantity  int             `json:"quantity"`
	Selected  bool            `json:"isSelected"`
}

// Key identifies the line for merge purposes.
func (l Line) Key() string { return Key(l.ProductID, l.Size) }

// UnitPrice is the per-unit price after the size multiplier.
func (l Line) UnitPrice() decimal.Decimal {
	return pricing.UnitPrice(l.BasePrice, l.Size)
}

// Key builds the "<productID>|<size>" line key.
func Key(productID int64, size pricing.Size) string {
	return fmt.Sprintf("%d|%s", productID, size)
}
