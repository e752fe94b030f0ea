package interfaces

import "context"

// InstrumentSource loads the symbol -> security id reference table for one exchange.
type InstrumentSource interface {
	Load(ctx context.Context) (map[string]string, error)
}
