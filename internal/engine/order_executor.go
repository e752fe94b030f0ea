package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
	"screener-trader/internal/metrics"
	"screener-trader/internal/tradelog"
	"screener-trader/internal/types"
)

// orderExecutor submits single orders and records their outcome in the trade log.
type orderExecutor struct {
	gateway interfaces.OrderGateway
	runID   string
}

func newOrderExecutor(gateway interfaces.OrderGateway, runID string) *orderExecutor {
	return &orderExecutor{gateway: gateway, runID: runID}
}

// submit places intent and classifies the broker's answer. A transport error and a
// non-success status both yield OutcomeFailure; the message carries whichever applies.
// ref is the screener price the bracket was computed from; it is logged with every leg.
func (oe *orderExecutor) submit(ctx context.Context, intent types.OrderIntent, ref decimal.Decimal) types.OrderOutcome {
	outcome := types.OrderOutcome{Intent: intent, Status: types.OutcomeFailure}

	resp, err := oe.gateway.PlaceOrder(ctx, intent)
	switch {
	case err != nil:
		outcome.BrokerMessage = err.Error()
		logger.ErrorWithErr(ctx, "Order submission failed", err,
			"symbol", intent.Symbol,
			"leg", intent.Leg,
			"qty", intent.Quantity,
		)
	case resp.Accepted():
		outcome.Status = types.OutcomeSuccess
		outcome.OrderID = resp.OrderID
		outcome.BrokerMessage = resp.Status
	default:
		outcome.OrderID = resp.OrderID
		outcome.BrokerMessage = resp.Status
		if resp.Message != "" {
			outcome.BrokerMessage = resp.Status + ": " + resp.Message
		}
	}

	price, _ := intent.LimitPrice.Float64()
	logger.Trade(ctx, intent.Symbol, string(intent.Side), string(intent.Kind), intent.Quantity, price,
		outcome.OrderID, string(outcome.Status), "leg", intent.Leg, "run_id", oe.runID)
	metrics.OrdersTotal.WithLabelValues(string(intent.Leg), string(intent.Side), string(outcome.Status)).Inc()

	entry := tradelog.Entry{
		RunID:          oe.runID,
		Symbol:         intent.Symbol,
		SecurityID:     intent.SecurityID,
		Leg:            string(intent.Leg),
		Side:           string(intent.Side),
		Kind:           string(intent.Kind),
		Qty:            intent.Quantity,
		Price:          intent.LimitPrice.StringFixed(2),
		ReferencePrice: ref.StringFixed(2),
		OrderID:        outcome.OrderID,
		Status:         string(outcome.Status),
		BrokerMessage:  outcome.BrokerMessage,
	}
	if intent.Kind == types.StopLimit {
		entry.TriggerPrice = intent.TriggerPrice.StringFixed(2)
	}
	if err := tradelog.Append(entry); err != nil {
		logger.Warn(ctx, "Failed to append trade log", "error", err, "symbol", intent.Symbol)
	}

	return outcome
}
