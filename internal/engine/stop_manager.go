package engine

import (
	"github.com/shopspring/decimal"
)

// BracketLevels are the tick-rounded prices for the protective legs of one entry.
type BracketLevels struct {
	StopTrigger decimal.Decimal
	StopLimit   decimal.Decimal
	Target      decimal.Decimal
}

// stopManager computes stop-loss and target prices around a reference price.
type stopManager struct {
	tick decimal.Decimal
	// limitOffsetPct is how far below the trigger, in percent of price, the stop's
	// limit sits.
	limitOffsetPct decimal.Decimal
}

func newStopManager(tick, limitOffsetPct decimal.Decimal) *stopManager {
	return &stopManager{tick: tick, limitOffsetPct: limitOffsetPct}
}

// levels returns:
//
//	stop trigger = tick(price × (1 − loss/100))
//	stop limit   = tick(price × (1 − (loss + offset)/100))
//	target       = tick(price × (1 + profit/100))
func (sm *stopManager) levels(price, profitPct, lossPct decimal.Decimal) BracketLevels {
	return BracketLevels{
		StopTrigger: RoundToTick(pct(price, lossPct.Neg()), sm.tick),
		StopLimit:   RoundToTick(pct(price, lossPct.Add(sm.limitOffsetPct).Neg()), sm.tick),
		Target:      RoundToTick(pct(price, profitPct), sm.tick),
	}
}
