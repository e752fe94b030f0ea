package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"screener-trader/internal/logger"
)

// riskManager splits run capital across candidates and sizes each position.
type riskManager struct {
	totalCapital decimal.Decimal
	stockCount   int
}

func newRiskManager(totalCapital decimal.Decimal, stockCount int) *riskManager {
	return &riskManager{totalCapital: totalCapital, stockCount: stockCount}
}

// allocation is the capital given to each candidate. The divisor is the requested
// stock count, not the number of candidates that survived resolution, so unresolved
// symbols leave their share unspent.
func (rm *riskManager) allocation() decimal.Decimal {
	if rm.stockCount <= 0 {
		return decimal.Zero
	}
	return rm.totalCapital.Div(decimal.NewFromInt(int64(rm.stockCount)))
}

// size returns the whole number of shares the allocation buys at price.
func (rm *riskManager) size(ctx context.Context, symbol string, allocation, price decimal.Decimal) int {
	qty := Quantity(allocation, price)
	logger.Debug(ctx, "Position sized",
		"symbol", symbol,
		"allocation", allocation.StringFixed(2),
		"price", price.String(),
		"qty", qty,
		"exposure", price.Mul(decimal.NewFromInt(int64(qty))).StringFixed(2),
	)
	return qty
}
