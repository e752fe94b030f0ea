package eod

import (
	"context"
	"time"

	"screener-trader/internal/interfaces"
)

var defaultSummarizer interfaces.EodSummarizer = &eodSummarizer{}

// SetDefaultSummarizer swaps the package-level summarizer, e.g. for an observed one.
func SetDefaultSummarizer(summarizer interfaces.EodSummarizer) {
	defaultSummarizer = summarizer
}

func NewSummarizer() interfaces.EodSummarizer {
	return &eodSummarizer{}
}

func SummarizeDay(ctx context.Context, day time.Time) (string, error) {
	return defaultSummarizer.SummarizeDay(ctx, day)
}

func SummarizeToday(ctx context.Context) (string, error) {
	return defaultSummarizer.SummarizeToday(ctx)
}

func ShouldRunNow() (bool, string) {
	return defaultSummarizer.ShouldRunNow(istNow())
}
