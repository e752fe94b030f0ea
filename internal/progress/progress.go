// Package progress turns pipeline events into the human-readable lines handed to the
// caller's log sink, and mirrors each line into the structured log.
package progress

import (
	"context"
	"fmt"
	"sync"

	"screener-trader/internal/logger"
	"screener-trader/internal/types"
)

// Reporter serialises calls to a LogSink so every line is delivered whole, whatever
// goroutine produced it. Ordering across goroutines is not guaranteed.
type Reporter struct {
	mu   sync.Mutex
	sink types.LogSink
	ctx  context.Context
}

func New(ctx context.Context, sink types.LogSink) *Reporter {
	if sink == nil {
		sink = func(string) {}
	}
	return &Reporter{sink: sink, ctx: ctx}
}

// Discard returns a Reporter that only writes to the structured log.
func Discard() *Reporter {
	return New(context.Background(), nil)
}

func (r *Reporter) emit(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink(line)
}

// Infof reports a plain progress line.
func (r *Reporter) Infof(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	logger.InfoSkip(r.ctx, 1, line, "stream", "progress")
	r.emit(line)
}

// Warnf reports a line prefixed the way operators scan for problems.
func (r *Reporter) Warnf(format string, args ...any) {
	line := "--> WARNING: " + fmt.Sprintf(format, args...)
	logger.WarnSkip(r.ctx, 1, line, "stream", "progress")
	r.emit(line)
}

// Fatalf reports an error that ends the run. It does not exit the process.
func (r *Reporter) Fatalf(format string, args ...any) {
	line := "FATAL ERROR: " + fmt.Sprintf(format, args...)
	logger.WarnSkip(r.ctx, 1, line, "stream", "progress", "fatal", true)
	r.emit(line)
}

// Errorf reports a non-fatal error line without any prefix.
func (r *Reporter) Errorf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	logger.WarnSkip(r.ctx, 1, line, "stream", "progress")
	r.emit(line)
}
