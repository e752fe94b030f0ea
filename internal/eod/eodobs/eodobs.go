package eodobs

import (
	"context"
	"time"

	"screener-trader/internal/interfaces"
	"screener-trader/internal/logger"
	"screener-trader/internal/trace"
)

type observableEodSummarizer struct {
	summarizer interfaces.EodSummarizer
}

var _ interfaces.EodSummarizer = (*observableEodSummarizer)(nil)

func Wrap(summarizer interfaces.EodSummarizer) interfaces.EodSummarizer {
	return &observableEodSummarizer{summarizer: summarizer}
}

func (o *observableEodSummarizer) SummarizeDay(ctx context.Context, day time.Time) (string, error) {
	ctx, span := trace.StartSpan(ctx, "eod.SummarizeDay")
	defer span.End()
	return o.observe(ctx, day.Format("2006-01-02"), func() (string, error) {
		return o.summarizer.SummarizeDay(ctx, day)
	})
}

func (o *observableEodSummarizer) SummarizeToday(ctx context.Context) (string, error) {
	ctx, span := trace.StartSpan(ctx, "eod.SummarizeToday")
	defer span.End()
	return o.observe(ctx, "today", func() (string, error) {
		return o.summarizer.SummarizeToday(ctx)
	})
}

func (o *observableEodSummarizer) ShouldRunNow(now time.Time) (bool, string) {
	shouldRun, csvPath := o.summarizer.ShouldRunNow(now)
	logger.DebugSkip(context.Background(), 1, "EOD check completed",
		"should_run", shouldRun,
		"csv_path", csvPath,
	)
	return shouldRun, csvPath
}

func (o *observableEodSummarizer) observe(ctx context.Context, day string, fn func() (string, error)) (string, error) {
	start := time.Now()
	logger.InfoSkip(ctx, 2, "Starting EOD summary", "date", day)

	csvPath, err := fn()
	switch {
	case err != nil:
		logger.ErrorWithErrSkip(ctx, 2, "EOD summary failed", err, "date", day)
		return "", err
	case csvPath == "":
		logger.InfoSkip(ctx, 2, "No trades found for EOD summary", "date", day)
	default:
		logger.InfoSkip(ctx, 2, "EOD summary written",
			"date", day,
			"csv_path", csvPath,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return csvPath, nil
}
