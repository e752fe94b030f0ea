package interfaces

import (
	"context"

	"screener-trader/internal/types"
)

// Runner executes one complete screener-to-orders run. Outcomes go to the sink only.
type Runner interface {
	Run(ctx context.Context, params types.RunParameters, sink types.LogSink)
}
