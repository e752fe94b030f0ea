package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"screener-trader/internal/broker"
	"screener-trader/internal/engine/engineobs"
	"screener-trader/internal/interfaces"
	"screener-trader/internal/resolver"
	"screener-trader/internal/screener"
	"screener-trader/internal/store"
	"screener-trader/internal/types"
)

// New returns a Runner over deps, wrapped with tracing and run logging.
func New(cfg *store.Config, deps Deps) interfaces.Runner {
	return engineobs.Wrap(newPipeline(cfg, deps))
}

// DefaultDeps wires the screener session, instrument source and broker gateway that
// cfg selects.
func DefaultDeps(cfg *store.Config) Deps {
	return Deps{
		Sessions: screener.NewSessionFactory(cfg),
		Instruments: func(clientID, accessToken string) (interfaces.InstrumentSource, error) {
			return resolver.NewSource(cfg, clientID, accessToken)
		},
		Gateways: broker.NewGatewayFactory(cfg),
	}
}

// RunTradingScript performs one complete run with the configured collaborators.
// Progress and results are reported through sink only.
func RunTradingScript(ctx context.Context, cfg *store.Config, link string, totalCapital, profitPct, lossPct float64,
	stockCount int, clientID, accessToken string, sink types.LogSink) {
	params := types.RunParameters{
		ScreenerLink:  link,
		TotalCapital:  decimal.NewFromFloat(totalCapital),
		ProfitPercent: decimal.NewFromFloat(profitPct),
		LossPercent:   decimal.NewFromFloat(lossPct),
		StockCount:    stockCount,
		ClientID:      clientID,
		AccessToken:   accessToken,
	}
	New(cfg, DefaultDeps(cfg)).Run(ctx, params, sink)
}
