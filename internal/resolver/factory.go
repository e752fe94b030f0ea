package resolver

import (
	"fmt"
	"strings"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/store"
)

// NewSource returns the instrument source cfg.Resolver.Source names: CSV (default) or KITE.
func NewSource(cfg *store.Config, clientID, accessToken string) (interfaces.InstrumentSource, error) {
	switch strings.ToUpper(cfg.Resolver.Source) {
	case "", "CSV":
		return CSVSource{Path: cfg.Resolver.Path, Exchange: cfg.Exchange, Marker: cfg.Resolver.InstrumentMarker}, nil
	case "KITE":
		if clientID == "" || accessToken == "" {
			return nil, fmt.Errorf("kite instrument source needs an api key and access token")
		}
		return NewKiteSource(clientID, accessToken, cfg.Exchange, cfg.Resolver.InstrumentMarker), nil
	default:
		return nil, fmt.Errorf("unknown resolver source %q", cfg.Resolver.Source)
	}
}
