package zerodha

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"screener-trader/internal/types"
)

type fakeKite struct {
	variety string
	params  kiteconnect.OrderParams
	resp    kiteconnect.OrderResponse
	err     error
}

func (f *fakeKite) PlaceOrder(variety string, p kiteconnect.OrderParams) (kiteconnect.OrderResponse, error) {
	f.variety, f.params = variety, p
	return f.resp, f.err
}

func TestPlaceStopLimitOrder(t *testing.T) {
	fk := &fakeKite{resp: kiteconnect.OrderResponse{OrderID: "230101000001"}}
	z := &Zerodha{p: Params{Product: "INTRADAY"}, kc: fk}

	resp, err := z.PlaceOrder(context.Background(), types.OrderIntent{
		Symbol:       "INFY",
		Exchange:     "NSE",
		Side:         types.Sell,
		Kind:         types.StopLimit,
		Leg:          types.LegStop,
		Quantity:     3,
		LimitPrice:   decimal.RequireFromString("1480.20"),
		TriggerPrice: decimal.RequireFromString("1483.15"),
	})
	require.NoError(t, err)
	assert.Equal(t, "230101000001", resp.OrderID)
	assert.True(t, resp.Accepted())

	assert.Equal(t, "regular", fk.variety)
	assert.Equal(t, "SL", fk.params.OrderType)
	assert.Equal(t, "MIS", fk.params.Product)
	assert.Equal(t, "SELL", fk.params.TransactionType)
	assert.Equal(t, "INFY", fk.params.Tradingsymbol)
	assert.Equal(t, 3, fk.params.Quantity)
	assert.InDelta(t, 1480.20, fk.params.Price, 1e-9)
	assert.InDelta(t, 1483.15, fk.params.TriggerPrice, 1e-9)
	assert.Equal(t, "scrstop", fk.params.Tag)
}

func TestPlaceOrderKiteError(t *testing.T) {
	z := &Zerodha{kc: &fakeKite{err: errors.New("Insufficient funds")}}
	_, err := z.PlaceOrder(context.Background(), types.OrderIntent{Symbol: "INFY", Kind: types.Market, Side: types.Buy, Quantity: 1})
	assert.ErrorContains(t, err, "Insufficient funds")
}

func TestPlaceOrderMissingID(t *testing.T) {
	z := &Zerodha{kc: &fakeKite{}}
	resp, err := z.PlaceOrder(context.Background(), types.OrderIntent{Symbol: "INFY", Kind: types.Limit, Side: types.Sell, Quantity: 1})
	require.NoError(t, err)
	assert.False(t, resp.Accepted())
}

func TestKiteProduct(t *testing.T) {
	assert.Equal(t, "MIS", kiteProduct(""))
	assert.Equal(t, "CNC", kiteProduct("delivery"))
	assert.Equal(t, "NRML", kiteProduct("nrml"))
}
