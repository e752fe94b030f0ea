package zerodha

import (
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// kiteOrders is the slice of the Kite Connect client the gateway uses.
type kiteOrders interface {
	PlaceOrder(variety string, orderParams kiteconnect.OrderParams) (kiteconnect.OrderResponse, error)
}
