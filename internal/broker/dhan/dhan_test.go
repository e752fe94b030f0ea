package dhan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener-trader/internal/types"
)

func newTestDhan(t *testing.T, h http.HandlerFunc) *Dhan {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewDhan(Params{BaseURL: srv.URL + "/v2/", ClientID: "1100", AccessToken: "tok", ProductType: "INTRADAY"})
}

func stopIntent() types.OrderIntent {
	return types.OrderIntent{
		SecurityID:   "1333",
		Symbol:       "HDFCBANK",
		Exchange:     "NSE",
		Side:         types.Sell,
		Kind:         types.StopLimit,
		Leg:          types.LegStop,
		Quantity:     5,
		LimitPrice:   decimal.RequireFromString("98.80"),
		TriggerPrice: decimal.RequireFromString("99.00"),
	}
}

func TestNewDhanHasNoRequestTimeout(t *testing.T) {
	d := NewDhan(Params{BaseURL: "https://api.dhan.co/v2", ClientID: "1100", AccessToken: "tok"})
	assert.Zero(t, d.client.Timeout())
}

func TestPlaceOrderSuccess(t *testing.T) {
	var got map[string]any
	d := newTestDhan(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/orders", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("access-token"))
		assert.Equal(t, "1100", r.Header.Get("client-id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"orderId":"112111182198","orderStatus":"PENDING"}`))
	})

	resp, err := d.PlaceOrder(context.Background(), stopIntent())
	require.NoError(t, err)
	assert.Equal(t, "112111182198", resp.OrderID)
	assert.Equal(t, types.StatusSuccess, resp.Status)
	assert.True(t, resp.Accepted())

	assert.Equal(t, "1100", got["dhanClientId"])
	assert.Equal(t, "SELL", got["transactionType"])
	assert.Equal(t, "NSE_EQ", got["exchangeSegment"])
	assert.Equal(t, "INTRADAY", got["productType"])
	assert.Equal(t, "STOP_LOSS", got["orderType"])
	assert.Equal(t, "DAY", got["validity"])
	assert.Equal(t, "1333", got["securityId"])
	assert.EqualValues(t, 5, got["quantity"])
	assert.EqualValues(t, 98.8, got["price"])
	assert.EqualValues(t, 99, got["triggerPrice"])
}

func TestPlaceOrderMarketOmitsTrigger(t *testing.T) {
	var got map[string]any
	d := newTestDhan(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"orderId":"1","orderStatus":"TRANSIT"}`))
	})
	in := stopIntent()
	in.Side, in.Kind, in.Leg = types.Buy, types.Market, types.LegEntry
	in.LimitPrice, in.TriggerPrice = decimal.Zero, decimal.Zero

	_, err := d.PlaceOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "MARKET", got["orderType"])
	assert.NotContains(t, got, "triggerPrice")
	assert.EqualValues(t, 0, got["price"])
}

func TestPlaceOrderRejectedByHTTPStatus(t *testing.T) {
	d := newTestDhan(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errorType":"Order_Error","errorCode":"DH-906","errorMessage":"Insufficient funds"}`))
	})

	resp, err := d.PlaceOrder(context.Background(), stopIntent())
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailure, resp.Status)
	assert.Equal(t, "DH-906 Insufficient funds", resp.Message)
	assert.False(t, resp.Accepted())
}

func TestPlaceOrderRejectedStatus(t *testing.T) {
	d := newTestDhan(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"orderId":"9","orderStatus":"REJECTED"}`))
	})
	resp, err := d.PlaceOrder(context.Background(), stopIntent())
	require.NoError(t, err)
	assert.False(t, resp.Accepted())
	assert.Equal(t, "9", resp.OrderID)
}

func TestPlaceOrderTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	d := NewDhan(Params{BaseURL: srv.URL, ClientID: "1", AccessToken: "t"})

	_, err := d.PlaceOrder(context.Background(), stopIntent())
	assert.Error(t, err)
}

func TestSegment(t *testing.T) {
	assert.Equal(t, "NSE_EQ", segment("nse"))
	assert.Equal(t, "BSE_EQ", segment("BSE"))
	assert.Equal(t, "NSE_EQ", segment(""))
}
