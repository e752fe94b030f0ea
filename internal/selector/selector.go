// Package selector turns parsed screener rows into ranked trade candidates.
package selector

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"screener-trader/internal/logger"
	"screener-trader/internal/progress"
	"screener-trader/internal/store"
	"screener-trader/internal/types"
)

// Select returns candidates from the first n rows, in screener order. Rows that are too
// short or carry an unusable price are reported and skipped; they still count towards n.
func Select(ctx context.Context, rows [][]string, n int, cols store.ColumnMap, report *progress.Reporter) []types.Candidate {
	if n <= 0 || len(rows) == 0 {
		return []types.Candidate{}
	}
	if n > len(rows) {
		n = len(rows)
	}

	need := max(cols.Name, cols.Symbol, cols.Price)
	out := make([]types.Candidate, 0, n)
	for i, row := range rows[:n] {
		if len(row) <= need {
			report.Warnf("Skipping screener row %d: expected at least %d columns, got %d.", i+1, need+1, len(row))
			continue
		}
		symbol := strings.TrimSpace(row[cols.Symbol])
		if symbol == "" {
			report.Warnf("Skipping screener row %d: empty symbol.", i+1)
			continue
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(row[cols.Price]), ",", ""))
		if err != nil || !price.IsPositive() {
			report.Warnf("Skipping %s: invalid price %q.", symbol, row[cols.Price])
			continue
		}
		out = append(out, types.Candidate{
			Symbol:         symbol,
			DisplayName:    strings.TrimSpace(row[cols.Name]),
			ReferencePrice: price,
		})
	}

	logger.Debug(ctx, "Candidates selected", "requested", n, "selected", len(out), "rows", len(rows))
	return out
}
