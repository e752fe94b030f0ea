package engineobs

import (
	"context"
	"sync/atomic"
	"time"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
	"screener-trader/internal/trace"
	"screener-trader/internal/types"
)

type observableRunner struct {
	runner interfaces.Runner
}

var _ interfaces.Runner = (*observableRunner)(nil)

func Wrap(r interfaces.Runner) interfaces.Runner {
	return &observableRunner{
		runner: r,
	}
}

func (or *observableRunner) Run(ctx context.Context, params types.RunParameters, sink types.LogSink) {
	ctx, span := trace.StartSpan(ctx, "engine.Run")
	defer span.End()

	start := time.Now()
	var lines atomic.Int64
	counted := func(line string) {
		lines.Add(1)
		if sink != nil {
			sink(line)
		}
	}

	logger.InfoSkip(ctx, 1, "Starting screener run",
		"link", params.ScreenerLink,
		"stock_count", params.StockCount,
	)

	or.runner.Run(ctx, params, counted)

	logger.InfoSkip(ctx, 1, "Screener run completed",
		"link", params.ScreenerLink,
		"progress_lines", lines.Load(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
