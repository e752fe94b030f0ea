package engine

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RoundToTick rounds price to the nearest multiple of tick. A non-positive tick leaves
// price unchanged.
func RoundToTick(price, tick decimal.Decimal) decimal.Decimal {
	if !tick.IsPositive() {
		return price
	}
	return price.Div(tick).Round(0).Mul(tick)
}

// Quantity is floor(allocation / price). Non-positive prices size to zero.
func Quantity(allocation, price decimal.Decimal) int {
	if !price.IsPositive() || !allocation.IsPositive() {
		return 0
	}
	return int(allocation.Div(price).Floor().IntPart())
}

// pct returns price scaled by (1 + delta/100).
func pct(price, delta decimal.Decimal) decimal.Decimal {
	return price.Mul(hundred.Add(delta)).Div(hundred)
}
