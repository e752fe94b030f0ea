package brokerobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
	"screener-trader/internal/trace"
	"screener-trader/internal/types"
)

// observableGateway wraps an OrderGateway with logging and tracing.
type observableGateway struct {
	gateway interfaces.OrderGateway
	name    string
}

var _ interfaces.OrderGateway = (*observableGateway)(nil)

func Wrap(gw interfaces.OrderGateway, name string) interfaces.OrderGateway {
	return &observableGateway{
		gateway: gw,
		name:    name,
	}
}

func (og *observableGateway) PlaceOrder(ctx context.Context, in types.OrderIntent) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	trace.AddEvent(ctx, "order.submit",
		attribute.String("broker", og.name),
		attribute.String("symbol", in.Symbol),
		attribute.String("leg", string(in.Leg)),
		attribute.Int("qty", in.Quantity),
	)

	logger.InfoSkip(ctx, 1, "Placing order",
		"broker", og.name,
		"symbol", in.Symbol,
		"security_id", in.SecurityID,
		"leg", in.Leg,
		"side", in.Side,
		"kind", in.Kind,
		"qty", in.Quantity,
	)

	start := time.Now()
	resp, err := og.gateway.PlaceOrder(ctx, in)
	if err != nil {
		trace.RecordError(ctx, err)
		logger.ErrorWithErrSkip(ctx, 1, "Failed to place order", err,
			"broker", og.name,
			"symbol", in.Symbol,
			"leg", in.Leg,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}

	logger.InfoSkip(ctx, 1, "Order answered",
		"broker", og.name,
		"symbol", in.Symbol,
		"leg", in.Leg,
		"order_id", resp.OrderID,
		"status", resp.Status,
		"message", resp.Message,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}
