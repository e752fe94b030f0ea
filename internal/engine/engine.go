package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"screener-trader/internal/id"
	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
	"screener-trader/internal/metrics"
	"screener-trader/internal/progress"
	"screener-trader/internal/resolver"
	"screener-trader/internal/screener"
	"screener-trader/internal/selector"
	"screener-trader/internal/store"
	"screener-trader/internal/types"
)

// ErrNoTradeable means resolution left nothing to trade, or, with require_all set,
// that at least one selected symbol had no security id.
var ErrNoTradeable = errors.New("no tradeable candidates")

// InstrumentFactory builds the reference source for one run's credentials.
type InstrumentFactory func(clientID, accessToken string) (interfaces.InstrumentSource, error)

// Deps are the collaborators a Pipeline drives. All three are required.
type Deps struct {
	Sessions    interfaces.SessionFactory
	Instruments InstrumentFactory
	Gateways    interfaces.GatewayFactory
}

// Pipeline runs scan -> select -> resolve -> bracket orders once per call to Run.
type Pipeline struct {
	cfg  *store.Config
	deps Deps
}

var _ interfaces.Runner = (*Pipeline)(nil)

func newPipeline(cfg *store.Config, deps Deps) *Pipeline {
	return &Pipeline{cfg: cfg, deps: deps}
}

// Run never returns an error. Everything the caller needs to know is written to sink,
// including unexpected panics, which end the run but not the process.
func (p *Pipeline) Run(ctx context.Context, params types.RunParameters, sink types.LogSink) {
	report := progress.New(ctx, sink)
	runID := id.New()

	defer func() {
		if r := recover(); r != nil {
			metrics.RunsTotal.WithLabelValues("crashed").Inc()
			logger.Error(ctx, "Pipeline panicked", "run_id", runID, "panic", r)
			report.Infof("\n--- A CRITICAL UNHANDLED ERROR OCCURRED: %v ---", r)
			report.Infof("--- Script execution has been terminated. ---")
		}
	}()

	logger.Info(ctx, "Run started",
		"run_id", runID,
		"link", params.ScreenerLink,
		"capital", params.TotalCapital.String(),
		"profit_pct", params.ProfitPercent.String(),
		"loss_pct", params.LossPercent.String(),
		"stock_count", params.StockCount,
		"mode", p.cfg.Mode,
		"broker", p.cfg.Broker,
	)
	report.Infof("--- Starting Trading Script ---")

	outcome := p.run(ctx, runID, params, report)
	metrics.RunsTotal.WithLabelValues(outcome).Inc()
	logger.Info(ctx, "Run ended", "run_id", runID, "outcome", outcome)
}

func (p *Pipeline) run(ctx context.Context, runID string, params types.RunParameters, report *progress.Reporter) string {
	if params.StockCount <= 0 {
		// Nothing can be bought, so skip the browser entirely.
		p.coordinator(nil, runID, params, report).execute(ctx, nil)
		report.Infof("\n--- Trading Script Finished ---")
		return "finished"
	}

	rows, err := p.fetch(ctx, params.ScreenerLink, report)
	switch {
	case errors.Is(err, screener.ErrNoRows):
		report.Infof("No stocks found from the scan. The script will not place any trades.")
		report.Infof("No symbols to process. Script finished.")
		return "empty"
	case err != nil:
		logger.ErrorWithErr(ctx, "Screener fetch failed", err, "run_id", runID)
		report.Infof("Halting execution due to critical error during data fetching.")
		return "halted"
	}

	candidates := selector.Select(ctx, rows, params.StockCount, p.cfg.Screener.Columns, report)
	if len(candidates) == 0 {
		report.Infof("No symbols to process. Script finished.")
		return "empty"
	}
	symbols := make([]string, len(candidates))
	for i, c := range candidates {
		symbols[i] = c.Symbol
	}
	report.Infof("Found %d stocks to trade: %s", len(candidates), strings.Join(symbols, ", "))

	resolved, err := p.resolve(ctx, params, candidates, report)
	if err != nil {
		logger.ErrorWithErr(ctx, "Symbol resolution failed", err, "run_id", runID)
		report.Infof("Halting execution due to critical error during data fetching.")
		return "halted"
	}

	gateway, err := p.deps.Gateways(params.ClientID, params.AccessToken)
	if err != nil {
		logger.ErrorWithErr(ctx, "Broker gateway unavailable", err, "run_id", runID, "broker", p.cfg.Broker)
		report.Fatalf("Could not connect to broker %s: %v", p.cfg.Broker, err)
		return "halted"
	}

	results := p.coordinator(gateway, runID, params, report).execute(ctx, resolved)
	logResults(ctx, runID, results)

	report.Infof("\n--- Trading Script Finished ---")
	return "finished"
}

func (p *Pipeline) fetch(ctx context.Context, link string, report *progress.Reporter) ([][]string, error) {
	start := time.Now()
	fetcher := screener.NewFetcher(p.deps.Sessions, report)
	rows, err := fetcher.Fetch(ctx, link)
	if err == nil {
		metrics.FetchSeconds.Observe(time.Since(start).Seconds())
	}
	return rows, err
}

// resolve maps candidates to security ids, preserving screener order.
func (p *Pipeline) resolve(ctx context.Context, params types.RunParameters, candidates []types.Candidate, report *progress.Reporter) ([]types.ResolvedCandidate, error) {
	src, err := p.deps.Instruments(params.ClientID, params.AccessToken)
	if err != nil {
		report.Fatalf("Could not open the instrument reference: %v", err)
		return nil, err
	}

	symbols := make([]string, len(candidates))
	for i, c := range candidates {
		symbols[i] = c.Symbol
	}
	ids, err := resolver.New(src).Resolve(ctx, symbols, report)
	if err != nil {
		return nil, err
	}

	out := make([]types.ResolvedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if sid, ok := ids[c.Symbol]; ok {
			out = append(out, types.ResolvedCandidate{Candidate: c, SecurityID: sid})
		}
	}

	switch {
	case len(out) == 0:
		report.Infof("ERROR: Could not retrieve Security IDs for any symbol. Halting.")
		return nil, fmt.Errorf("resolved 0 of %d symbols: %w", len(candidates), ErrNoTradeable)
	case p.cfg.Resolver.RequireAll && len(out) != len(candidates):
		report.Infof("ERROR: Could not retrieve Security IDs for all symbols. Halting.")
		return nil, fmt.Errorf("resolved %d of %d symbols: %w", len(out), len(candidates), ErrNoTradeable)
	}
	return out, nil
}

func (p *Pipeline) coordinator(gateway interfaces.OrderGateway, runID string, params types.RunParameters, report *progress.Reporter) *coordinator {
	risk := newRiskManager(params.TotalCapital, params.StockCount)
	placer := &orderPlacer{
		exec:      newOrderExecutor(gateway, runID),
		stops:     newStopManager(p.cfg.TickSize(), p.cfg.StopLimitOffset()),
		risk:      risk,
		report:    report,
		exchange:  p.cfg.Exchange,
		profitPct: params.ProfitPercent,
		lossPct:   params.LossPercent,
	}
	return &coordinator{place: placer.place, risk: risk, report: report}
}

func logResults(ctx context.Context, runID string, results []types.CandidateResult) {
	counts := map[types.ResultStatus]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	logger.Info(ctx, "Order placement complete",
		"run_id", runID,
		"candidates", len(results),
		"placed", counts[types.ResultPlaced],
		"partial", counts[types.ResultPartial],
		"failed", counts[types.ResultFailed],
		"skipped", counts[types.ResultSkipped],
	)
}
