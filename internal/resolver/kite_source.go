package resolver

import (
	"context"
	"fmt"
	"strconv"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"screener-trader/internal/logger"
)

type instrumentLister interface {
	GetInstrumentsByExchange(exchange string) (kiteconnect.Instruments, error)
}

// KiteSource pulls the exchange's instrument dump from Kite Connect. The security id is
// the instrument token.
type KiteSource struct {
	client   instrumentLister
	exchange string
	marker   string
}

func NewKiteSource(apiKey, accessToken, exchange, marker string) *KiteSource {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &KiteSource{client: kc, exchange: exchange, marker: marker}
}

func (s *KiteSource) Load(ctx context.Context) (map[string]string, error) {
	insts, err := s.client.GetInstrumentsByExchange(s.exchange)
	if err != nil {
		return nil, fmt.Errorf("kite instruments %s: %w", s.exchange, err)
	}
	table := make(map[string]string, len(insts))
	for _, in := range insts {
		if in.InstrumentType != s.marker {
			continue
		}
		if _, seen := table[in.Tradingsymbol]; seen {
			continue
		}
		table[in.Tradingsymbol] = strconv.Itoa(in.InstrumentToken)
	}
	logger.Debug(ctx, "Kite instruments loaded", "exchange", s.exchange, "total", len(insts), "matched", len(table))
	return table, nil
}
