package interfaces

import (
	"context"
	"time"
)

// EodSummarizer turns a day's trade log into a per-symbol bracket report.
type EodSummarizer interface {
	// SummarizeDay returns the CSV path, or "" when the day has no trades.
	SummarizeDay(ctx context.Context, day time.Time) (string, error)
	SummarizeToday(ctx context.Context) (string, error)
	// ShouldRunNow is true after market close when today's report does not exist yet.
	ShouldRunNow(now time.Time) (bool, string)
}
