// Package zerodha places orders through Kite Connect.
package zerodha

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
	"screener-trader/internal/types"
)

const (
	varietyRegular  = "regular"
	validityDay     = "DAY"
	orderTypeMarket = "MARKET"
	orderTypeLimit  = "LIMIT"
	orderTypeSL     = "SL"
	productMIS      = "MIS"
	productCNC      = "CNC"
)

type Params struct {
	APIKey      string
	AccessToken string
	// Product is the configured product type; INTRADAY maps to Kite's MIS.
	Product string
}

type Zerodha struct {
	p  Params
	kc kiteOrders
}

var _ interfaces.OrderGateway = (*Zerodha)(nil)

func NewZerodha(p Params) *Zerodha {
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	kc.SetHTTPClient(&http.Client{})
	return &Zerodha{p: p, kc: kc}
}

// PlaceOrder submits a regular-variety order addressed by trading symbol. Kite rejects
// invalid orders with an error, so err covers both transport and broker rejections.
func (z *Zerodha) PlaceOrder(ctx context.Context, in types.OrderIntent) (types.OrderResp, error) {
	params, err := orderParams(in, z.p.Product)
	if err != nil {
		return types.OrderResp{}, err
	}
	logger.Debug(ctx, "Placing Kite order",
		"symbol", in.Symbol,
		"side", params.TransactionType,
		"type", params.OrderType,
		"qty", params.Quantity,
		"price", params.Price,
		"trigger", params.TriggerPrice,
	)

	resp, err := z.kc.PlaceOrder(varietyRegular, params)
	if err != nil {
		return types.OrderResp{}, fmt.Errorf("kite place order %s: %w", in.Symbol, err)
	}
	if resp.OrderID == "" {
		return types.OrderResp{Status: types.StatusFailure, Message: "no order id returned"}, nil
	}
	return types.OrderResp{OrderID: resp.OrderID, Status: types.StatusSuccess}, nil
}

func orderParams(in types.OrderIntent, product string) (kiteconnect.OrderParams, error) {
	p := kiteconnect.OrderParams{
		Exchange:        in.Exchange,
		Tradingsymbol:   in.Symbol,
		Validity:        validityDay,
		Product:         kiteProduct(product),
		TransactionType: string(in.Side),
		Quantity:        in.Quantity,
		Tag:             legTag(in.Leg),
	}
	switch in.Kind {
	case types.Market:
		p.OrderType = orderTypeMarket
	case types.Limit:
		p.OrderType = orderTypeLimit
		p.Price, _ = in.LimitPrice.Float64()
	case types.StopLimit:
		p.OrderType = orderTypeSL
		p.Price, _ = in.LimitPrice.Float64()
		p.TriggerPrice, _ = in.TriggerPrice.Float64()
	default:
		return p, errors.New("unsupported order kind " + string(in.Kind))
	}
	return p, nil
}

func kiteProduct(product string) string {
	switch strings.ToUpper(product) {
	case "", "INTRADAY", "MIS":
		return productMIS
	case "CNC", "DELIVERY":
		return productCNC
	default:
		return strings.ToUpper(product)
	}
}

func legTag(l types.Leg) string {
	switch l {
	case types.LegEntry:
		return "screntry"
	case types.LegStop:
		return "scrstop"
	default:
		return "scrtarget"
	}
}
