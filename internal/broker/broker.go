// Package broker builds the order gateway a run submits through.
package broker

import (
	"errors"
	"fmt"

	"screener-trader/internal/broker/brokerobs"
	"screener-trader/internal/broker/dhan"
	"screener-trader/internal/broker/zerodha"
	"screener-trader/internal/interfaces"
	"screener-trader/internal/store"
)

// ErrMissingCredentials is returned for a LIVE gateway without a client id and token.
var ErrMissingCredentials = errors.New("missing client id/access token")

// NewGatewayFactory returns a factory for cfg's mode and broker. Every gateway it
// builds is wrapped with tracing and order logging.
func NewGatewayFactory(cfg *store.Config) interfaces.GatewayFactory {
	return func(clientID, accessToken string) (interfaces.OrderGateway, error) {
		gw, err := newGateway(cfg, clientID, accessToken)
		if err != nil {
			return nil, err
		}
		return brokerobs.Wrap(gw, cfg.Broker), nil
	}
}

func newGateway(cfg *store.Config, clientID, accessToken string) (interfaces.OrderGateway, error) {
	if cfg.Mode == "DRY_RUN" {
		return NewPaper(cfg.Broker), nil
	}
	if clientID == "" || accessToken == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Broker, ErrMissingCredentials)
	}
	switch cfg.Broker {
	case "DHAN":
		return dhan.NewDhan(dhan.Params{
			BaseURL:     cfg.Dhan.BaseURL,
			ClientID:    clientID,
			AccessToken: accessToken,
			ProductType: cfg.Orders.ProductType,
		}), nil
	case "ZERODHA":
		return zerodha.NewZerodha(zerodha.Params{
			APIKey:      clientID,
			AccessToken: accessToken,
			Product:     cfg.Orders.ProductType,
		}), nil
	default:
		return nil, fmt.Errorf("unknown broker %q", cfg.Broker)
	}
}
