package ledger

import (
	"fmt"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"

	"github.com/shopspring/decimal"
)

// Position is the mutable part of a holding: how much is held and at what
// weighted average acquisition price.
type Position struct {
	Quantity decimal.Decimal
	AvgPrice decimal.Decimal
}

// Change is the holding mutation a trade produces. Create means no row
// existed and one must be inserted; otherwise the existing row is updated.
type Change struct {
	Create   bool
	Quantity decimal.Decimal
	AvgPrice decimal.Decimal
}

// Apply computes the holding mutation for a trade. existing is nil when the
// user has no position in the gold type yet.
//
// BUY folds the trade into the position, recomputing the quantity-weighted
// average price. SELL only reduces the quantity; the average price of what
// remains is unchanged. A SELL larger than the position (or with no position
// at all) fails with store.ErrInsufficientHoldings rather than going short.
func Apply(existing *Position, side models.TradeSide, quantity, price decimal.Decimal) (Change, error) {
	if err := side.Validate(); err != nil {
		return Change{}, err
	}
	if !quantity.IsPositive() {
		return Change{}, fmt.Errorf("trade quantity must be positive, got %s", quantity.String())
	}
	if !price.IsPositive() {
		return Change{}, fmt.Errorf("trade price must be positive, got %s", price.String())
	}

	switch side {
	case models.SideBuy:
		if existing == nil {
			return Change{Create: true, Quantity: quantity, AvgPrice: price}, nil
		}
		newQuantity := existing.Quantity.Add(quantity)
		cost := existing.Quantity.Mul(existing.AvgPrice).Add(quantity.Mul(price))
		return Change{
			Quantity: newQuantity,
			AvgPrice: cost.Div(newQuantity),
		}, nil

	case models.SideSell:
		if existing == nil {
			return Change{}, fmt.Errorf("sell %s with no position: %w",
				quantity.String(), store.ErrInsufficientHoldings)
		}
		newQuantity := existing.Quantity.Sub(quantity)
		if newQuantity.IsNegative() {
			return Change{}, fmt.Errorf("sell %s exceeds held %s: %w",
				quantity.String(), existing.Quantity.String(), store.ErrInsufficientHoldings)
		}
		return Change{
			Quantity: newQuantity,
			AvgPrice: existing.AvgPrice,
		}, nil

	default:
		return Change{}, fmt.Errorf("invalid trade side: %q", string(side))
	}
}
