// Package dhan places orders through the Dhan v2 REST API.
package dhan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"screener-trader/internal/api"
	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
	"screener-trader/internal/types"
)

type Params struct {
	BaseURL     string
	ClientID    string
	AccessToken string
	ProductType string
	// Client overrides the HTTP client built from the fields above.
	Client *api.Client
}

type Dhan struct {
	p      Params
	client *api.Client
}

var _ interfaces.OrderGateway = (*Dhan)(nil)

func NewDhan(p Params) *Dhan {
	c := p.Client
	if c == nil {
		c = api.NewClient(
			api.WithBaseURL(strings.TrimRight(p.BaseURL, "/")),
			api.WithHeader("access-token", p.AccessToken),
			api.WithHeader("client-id", p.ClientID),
			api.WithLogging(true),
			api.WithTimeout(0),
		)
	}
	return &Dhan{p: p, client: c}
}

type orderRequest struct {
	DhanClientID      string  `json:"dhanClientId"`
	TransactionType   string  `json:"transactionType"`
	ExchangeSegment   string  `json:"exchangeSegment"`
	ProductType       string  `json:"productType"`
	OrderType         string  `json:"orderType"`
	Validity          string  `json:"validity"`
	SecurityID        string  `json:"securityId"`
	Quantity          int     `json:"quantity"`
	Price             float64 `json:"price"`
	TriggerPrice      float64 `json:"triggerPrice,omitempty"`
	AfterMarketOrder  bool    `json:"afterMarketOrder"`
	DisclosedQuantity int     `json:"disclosedQuantity"`
}

type orderResponse struct {
	OrderID     string `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
}

type errorResponse struct {
	ErrorType    string `json:"errorType"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// PlaceOrder posts one order. HTTP rejections come back as a failure status with the
// broker's error text; only transport problems return an error.
func (d *Dhan) PlaceOrder(ctx context.Context, in types.OrderIntent) (types.OrderResp, error) {
	req, err := d.request(in)
	if err != nil {
		return types.OrderResp{}, err
	}

	resp, err := d.client.POST(ctx, "/orders", req)
	var se *api.StatusError
	switch {
	case errors.As(err, &se):
		var er errorResponse
		_ = resp.ParseJSON(&er)
		msg := strings.TrimSpace(er.ErrorCode + " " + er.ErrorMessage)
		if msg == "" {
			msg = se.Error()
		}
		logger.Warn(ctx, "Dhan rejected order", "security_id", in.SecurityID, "http_status", se.StatusCode, "error", msg)
		return types.OrderResp{Status: types.StatusFailure, Message: msg}, nil
	case err != nil:
		return types.OrderResp{}, err
	}

	var out orderResponse
	if err := resp.ParseJSON(&out); err != nil {
		return types.OrderResp{}, err
	}
	if out.OrderID == "" || strings.EqualFold(out.OrderStatus, "REJECTED") {
		return types.OrderResp{OrderID: out.OrderID, Status: types.StatusFailure, Message: out.OrderStatus}, nil
	}
	return types.OrderResp{OrderID: out.OrderID, Status: types.StatusSuccess, Message: out.OrderStatus}, nil
}

func (d *Dhan) request(in types.OrderIntent) (orderRequest, error) {
	req := orderRequest{
		DhanClientID:    d.p.ClientID,
		TransactionType: string(in.Side),
		ExchangeSegment: segment(in.Exchange),
		ProductType:     d.p.ProductType,
		Validity:        "DAY",
		SecurityID:      in.SecurityID,
		Quantity:        in.Quantity,
	}
	switch in.Kind {
	case types.Market:
		req.OrderType = "MARKET"
	case types.Limit:
		req.OrderType = "LIMIT"
		req.Price, _ = in.LimitPrice.Float64()
	case types.StopLimit:
		req.OrderType = "STOP_LOSS"
		req.Price, _ = in.LimitPrice.Float64()
		req.TriggerPrice, _ = in.TriggerPrice.Float64()
	default:
		return req, fmt.Errorf("unsupported order kind %q", in.Kind)
	}
	return req, nil
}

// segment maps an exchange to Dhan's cash segment name.
func segment(exchange string) string {
	switch strings.ToUpper(exchange) {
	case "", "NSE":
		return "NSE_EQ"
	case "BSE":
		return "BSE_EQ"
	default:
		return strings.ToUpper(exchange)
	}
}
