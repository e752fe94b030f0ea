package interfaces

import (
	"context"

	"screener-trader/internal/types"
)

// OrderGateway submits a single order to a broker.
type OrderGateway interface {
	PlaceOrder(ctx context.Context, intent types.OrderIntent) (types.OrderResp, error)
}

// GatewayFactory builds a gateway for one run's credentials.
type GatewayFactory func(clientID, accessToken string) (OrderGateway, error)
