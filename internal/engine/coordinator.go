package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"screener-trader/internal/logger"
	"screener-trader/internal/metrics"
	"screener-trader/internal/progress"
	"screener-trader/internal/types"
)

// placeFunc places the bracket for one candidate. It is a field so tests can inject
// a worker that misbehaves.
type placeFunc func(ctx context.Context, c types.ResolvedCandidate, allocation decimal.Decimal) types.CandidateResult

// coordinator fans one worker out per candidate and collects results in completion order.
type coordinator struct {
	place  placeFunc
	risk   *riskManager
	report *progress.Reporter
}

// execute returns exactly one result per candidate. Workers run on a context that
// ignores cancellation: once orders start going out, the run finishes.
func (co *coordinator) execute(ctx context.Context, candidates []types.ResolvedCandidate) []types.CandidateResult {
	if co.risk.stockCount <= 0 {
		co.report.Infof("Number of stocks to buy is zero. No trades will be placed.")
		return nil
	}
	if len(candidates) == 0 {
		co.report.Infof("No candidates to trade. No trades will be placed.")
		return nil
	}

	allocation := co.risk.allocation()
	co.report.Infof("\nInitiating buys. Amount per stock: ₹%s", allocation.StringFixed(2))

	ctx = context.WithoutCancel(ctx)
	results := make(chan types.CandidateResult, len(candidates))

	var g errgroup.Group
	g.SetLimit(len(candidates))
	for _, c := range candidates {
		g.Go(func() error {
			results <- co.runWorker(ctx, c, allocation)
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	out := make([]types.CandidateResult, 0, len(candidates))
	for r := range results {
		metrics.CandidatesTotal.WithLabelValues(string(r.Status)).Inc()
		logger.Debug(ctx, "Candidate finished", "symbol", r.Candidate.Symbol, "status", r.Status, "qty", r.Quantity)
		out = append(out, r)
	}
	return out
}

// runWorker is the last line of defence for a worker: anything escaping the placer is
// reported here and turned into a failed result.
func (co *coordinator) runWorker(ctx context.Context, c types.ResolvedCandidate, allocation decimal.Decimal) (res types.CandidateResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Trading worker panicked", "symbol", c.Symbol, "panic", r)
			co.report.Errorf("A trading thread failed with an error: %v", r)
			res = types.CandidateResult{Candidate: c, Status: types.ResultFailed, Err: fmt.Errorf("worker panic: %v", r)}
		}
	}()
	return co.place(ctx, c, allocation)
}
