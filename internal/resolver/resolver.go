// Package resolver maps screener tickers to the security identifiers a broker expects.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
	"screener-trader/internal/metrics"
	"screener-trader/internal/progress"
)

// ErrReferenceMissing means the reference dataset could not be found.
var ErrReferenceMissing = errors.New("instrument reference missing")

// Resolver loads its source once and answers lookups from the cached table.
type Resolver struct {
	src interfaces.InstrumentSource

	once  sync.Once
	table map[string]string
	err   error
}

func New(src interfaces.InstrumentSource) *Resolver {
	return &Resolver{src: src}
}

func (r *Resolver) load(ctx context.Context) (map[string]string, error) {
	r.once.Do(func() {
		timer := logger.StartOperation(ctx, "resolver.load")
		r.table, r.err = r.src.Load(ctx)
		if r.err != nil {
			timer.EndWithError(r.err)
			return
		}
		timer.End("instruments", len(r.table))
	})
	return r.table, r.err
}

// Resolve returns the ids it could find. Symbols absent from the reference are left out
// and reported; only a reference that cannot be loaded is an error.
func (r *Resolver) Resolve(ctx context.Context, symbols []string, report *progress.Reporter) (map[string]string, error) {
	table, err := r.load(ctx)
	if err != nil {
		if errors.Is(err, ErrReferenceMissing) {
			report.Fatalf("%v not found! Please place it in the application folder.", err)
		} else {
			report.Fatalf("Could not load instrument reference: %v", err)
		}
		return nil, fmt.Errorf("resolve: %w", err)
	}

	out := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		sid, ok := table[sym]
		if !ok {
			metrics.UnresolvedTotal.Inc()
			report.Warnf("Could not find security ID for symbol: %s. It will be skipped.", sym)
			continue
		}
		out[sym] = sid
	}
	logger.Debug(ctx, "Symbols resolved", "requested", len(symbols), "resolved", len(out))
	return out, nil
}
