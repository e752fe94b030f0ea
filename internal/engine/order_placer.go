package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"screener-trader/internal/logger"
	"screener-trader/internal/progress"
	"screener-trader/internal/types"
)

// orderPlacer runs the entry, stop-loss and target sequence for one candidate.
type orderPlacer struct {
	exec      *orderExecutor
	stops     *stopManager
	risk      *riskManager
	report    *progress.Reporter
	exchange  string
	profitPct decimal.Decimal
	lossPct   decimal.Decimal
}

// place never panics and never returns an error: every failure is reported and folded
// into the result so sibling candidates are unaffected.
func (op *orderPlacer) place(ctx context.Context, c types.ResolvedCandidate, allocation decimal.Decimal) (res types.CandidateResult) {
	res = types.CandidateResult{Candidate: c, Status: types.ResultFailed}
	defer func() {
		if r := recover(); r != nil {
			res.Status = types.ResultFailed
			res.Err = fmt.Errorf("panic: %v", r)
			logger.Error(ctx, "Recovered panic while placing orders", "symbol", c.Symbol, "panic", r)
			op.report.Errorf("An unexpected error occurred while placing order for %s: %v", c.DisplayName, r)
		}
	}()

	qty := op.risk.size(ctx, c.Symbol, allocation, c.ReferencePrice)
	res.Quantity = qty
	if qty == 0 {
		op.report.Infof("Stock %s is too expensive for the allocated amount. Skipping.", c.DisplayName)
		res.Status = types.ResultSkipped
		return res
	}

	op.report.Infof("\nAttempting to place a BUY for %s (Quantity: %d)", c.DisplayName, qty)
	buy := op.exec.submit(ctx, op.intent(c, types.Buy, types.Market, types.LegEntry, qty, decimal.Zero, decimal.Zero), c.ReferencePrice)
	res.Outcomes = append(res.Outcomes, buy)
	op.report.Infof("--> Buy Order Response for %s: %s", c.DisplayName, brokerStatus(buy))

	if buy.Status != types.OutcomeSuccess {
		op.report.Infof("Buy order failed for %s. Halting further orders for this stock.", c.DisplayName)
		res.Err = fmt.Errorf("buy rejected: %s", buy.BrokerMessage)
		return res
	}

	lv := op.stops.levels(c.ReferencePrice, op.profitPct, op.lossPct)
	res.Status = types.ResultPlaced

	op.report.Infof("Placing Stop-Loss for %s at Trigger %s...", c.DisplayName, lv.StopTrigger.StringFixed(2))
	sl := op.exec.submit(ctx, op.intent(c, types.Sell, types.StopLimit, types.LegStop, qty, lv.StopLimit, lv.StopTrigger), c.ReferencePrice)
	res.Outcomes = append(res.Outcomes, sl)
	if sl.Status != types.OutcomeSuccess {
		op.report.Warnf("Failed to place Stop-Loss for %s. Please place it manually.", c.DisplayName)
		res.Status = types.ResultPartial
	} else {
		op.report.Infof("--> Stop-Loss placed successfully for %s.", c.DisplayName)
	}

	op.report.Infof("Placing Target for %s at %s...", c.DisplayName, lv.Target.StringFixed(2))
	tgt := op.exec.submit(ctx, op.intent(c, types.Sell, types.Limit, types.LegTarget, qty, lv.Target, decimal.Zero), c.ReferencePrice)
	res.Outcomes = append(res.Outcomes, tgt)
	if tgt.Status != types.OutcomeSuccess {
		op.report.Warnf("Failed to place Profit Target for %s. Please place it manually.", c.DisplayName)
		res.Status = types.ResultPartial
	} else {
		op.report.Infof("--> Profit Target placed successfully for %s.", c.DisplayName)
	}

	return res
}

func (op *orderPlacer) intent(c types.ResolvedCandidate, side types.Side, kind types.OrderKind, leg types.Leg, qty int, limit, trigger decimal.Decimal) types.OrderIntent {
	return types.OrderIntent{
		SecurityID:   c.SecurityID,
		Symbol:       c.Symbol,
		Exchange:     op.exchange,
		Side:         side,
		Kind:         kind,
		Leg:          leg,
		Quantity:     qty,
		LimitPrice:   limit,
		TriggerPrice: trigger,
	}
}

func brokerStatus(o types.OrderOutcome) string {
	if o.BrokerMessage == "" {
		return "N/A"
	}
	return o.BrokerMessage
}
