package broker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener-trader/internal/store"
	"screener-trader/internal/types"
)

func TestDryRunUsesPaperGateway(t *testing.T) {
	cfg := store.Default()
	gw, err := NewGatewayFactory(cfg)("", "")
	require.NoError(t, err)

	resp, err := gw.PlaceOrder(context.Background(), types.OrderIntent{Symbol: "ACME", Side: types.Buy, Kind: types.Market, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, types.StatusSimulated, resp.Status)
	assert.True(t, strings.HasPrefix(resp.OrderID, "SIM-"))
	assert.True(t, resp.Accepted())
}

func TestLiveNeedsCredentials(t *testing.T) {
	cfg := store.Default()
	cfg.Mode = "LIVE"
	_, err := NewGatewayFactory(cfg)("client", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLiveGateways(t *testing.T) {
	cfg := store.Default()
	cfg.Mode = "LIVE"
	for _, b := range []string{"DHAN", "ZERODHA"} {
		cfg.Broker = b
		gw, err := NewGatewayFactory(cfg)("client", "token")
		require.NoError(t, err, b)
		assert.NotNil(t, gw)
	}

	cfg.Broker = "UPSTOX"
	_, err := NewGatewayFactory(cfg)("client", "token")
	assert.Error(t, err)
}
