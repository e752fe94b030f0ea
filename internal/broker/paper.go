package broker

import (
	"context"

	"screener-trader/internal/id"
	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
	"screener-trader/internal/types"
)

// Paper accepts every order without contacting a broker.
type Paper struct {
	broker string
}

var _ interfaces.OrderGateway = (*Paper)(nil)

func NewPaper(broker string) *Paper { return &Paper{broker: broker} }

func (p *Paper) PlaceOrder(ctx context.Context, in types.OrderIntent) (types.OrderResp, error) {
	resp := types.OrderResp{OrderID: id.Prefixed("SIM"), Status: types.StatusSimulated, Message: "dry-run"}
	logger.Info(ctx, "Simulated order placed",
		"broker", p.broker,
		"symbol", in.Symbol,
		"side", in.Side,
		"kind", in.Kind,
		"qty", in.Quantity,
		"price", in.LimitPrice.String(),
		"trigger", in.TriggerPrice.String(),
		"order_id", resp.OrderID,
	)
	return resp, nil
}
