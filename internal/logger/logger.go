package logger

import (
	"context"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"screener-trader/internal/trace"
)

var (
	mu sync.RWMutex
	// Global logger instance. Nop until Init is called so packages can log from tests.
	globalLogger = zap.NewNop().Sugar()
	// Whether detailed logging is enabled
	detailedLogging bool
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or console
	DetailedLogging bool   // Enable debug logs with caller source
}

// Init initializes the global logger and tracer based on environment variables
func Init() error {
	if err := InitWithConfig(LoadConfigFromEnv()); err != nil {
		return err
	}
	if err := trace.Init(); err != nil {
		Warn(context.Background(), "Failed to initialize OpenTelemetry tracer, tracing disabled", "error", err)
	}
	return nil
}

// LoadConfigFromEnv loads logging configuration from environment variables
func LoadConfigFromEnv() LogConfig {
	return LogConfig{
		Level:           getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format:          getEnvOrDefault("LOG_FORMAT", "console"),
		DetailedLogging: getEnvOrDefault("LOG_DETAILED", "false") == "true",
	}
}

// InitWithConfig builds the zap core for the given configuration and installs it globally.
func InitWithConfig(config LogConfig) error {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(config.Format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	level := parseLogLevel(config.Level)
	if config.DetailedLogging {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(level))

	mu.Lock()
	globalLogger = zap.New(core).Sugar()
	detailedLogging = config.DetailedLogging
	mu.Unlock()
	return nil
}

// SetLogger replaces the global logger. Used by tests to capture output.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = l.Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = globalLogger.Sync()
}

// parseLogLevel converts string log level to a zap level
func parseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Debug logs a debug message
func Debug(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.DebugLevel, msg, 2, args...)
}

// Info logs an info message
func Info(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.InfoLevel, msg, 2, args...)
}

// Warn logs a warning message
func Warn(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.WarnLevel, msg, 2, args...)
}

// Error logs an error message
func Error(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.ErrorLevel, msg, 2, args...)
}

// ErrorWithErr logs an error message with an error object and records it on the active span
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	trace.RecordError(ctx, err)
	logWithTrace(ctx, zapcore.ErrorLevel, msg, 2, append([]any{"error", err}, args...)...)
}

// DebugSkip, InfoSkip and friends are for wrappers that log on behalf of their caller.

func DebugSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, zapcore.DebugLevel, msg, 2+skip, args...)
}

func InfoSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, zapcore.InfoLevel, msg, 2+skip, args...)
}

func WarnSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, zapcore.WarnLevel, msg, 2+skip, args...)
}

func ErrorWithErrSkip(ctx context.Context, skip int, msg string, err error, args ...any) {
	trace.RecordError(ctx, err)
	logWithTrace(ctx, zapcore.ErrorLevel, msg, 2+skip, append([]any{"error", err}, args...)...)
}

// logWithTrace logs a message with trace ID and span ID if available.
// skip is the number of stack frames between runtime.Caller and the real caller.
func logWithTrace(ctx context.Context, level zapcore.Level, msg string, skip int, args ...any) {
	if traceID, spanID, ok := trace.GetTraceFields(ctx); ok {
		args = append([]any{"trace_id", traceID, "span_id", spanID}, args...)
	}

	mu.RLock()
	l, detailed := globalLogger, detailedLogging
	mu.RUnlock()

	if detailed {
		if pc, file, line, ok := runtime.Caller(skip); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				args = append(args, "source", map[string]any{
					"function": fn.Name(),
					"file":     file,
					"line":     line,
				})
			}
		}
	}

	switch level {
	case zapcore.DebugLevel:
		l.Debugw(msg, args...)
	case zapcore.WarnLevel:
		l.Warnw(msg, args...)
	case zapcore.ErrorLevel:
		l.Errorw(msg, args...)
	default:
		l.Infow(msg, args...)
	}
}

// OperationTimer helps measure operation duration with OpenTelemetry spans
type OperationTimer struct {
	ctx    context.Context
	end    func()
	start  time.Time
	fields []any
}

// StartOperation starts timing an operation with an OpenTelemetry span
func StartOperation(ctx context.Context, operation string, fields ...any) *OperationTimer {
	ctx, span := trace.StartSpan(ctx, operation)
	span.SetAttributes(toAttributes(fields)...)

	Debug(ctx, "Operation started", append([]any{"operation", operation}, fields...)...)

	return &OperationTimer{
		ctx:    ctx,
		end:    func() { span.End() },
		start:  time.Now(),
		fields: append([]any{"operation", operation}, fields...),
	}
}

// End completes the operation timer and logs the duration
func (ot *OperationTimer) End(additionalFields ...any) {
	fields := append(ot.fields, "duration_ms", time.Since(ot.start).Milliseconds())
	fields = append(fields, additionalFields...)
	logWithTrace(ot.ctx, zapcore.DebugLevel, "Operation completed", 2, fields...)
	ot.end()
}

// EndWithError completes the operation timer with an error
func (ot *OperationTimer) EndWithError(err error, additionalFields ...any) {
	trace.RecordError(ot.ctx, err)
	fields := append(ot.fields, "duration_ms", time.Since(ot.start).Milliseconds(), "error", err)
	fields = append(fields, additionalFields...)
	logWithTrace(ot.ctx, zapcore.ErrorLevel, "Operation failed", 2, fields...)
	ot.end()
}

// Context returns the context carrying the operation span
func (ot *OperationTimer) Context() context.Context {
	return ot.ctx
}

// Trade logs an order placement (always logged regardless of level)
func Trade(ctx context.Context, symbol, side, kind string, qty int, price float64, orderID, status string, fields ...any) {
	trace.AddEvent(ctx, "order_placed",
		attribute.String("symbol", symbol),
		attribute.String("side", side),
		attribute.String("kind", kind),
		attribute.Int("quantity", qty),
		attribute.Float64("price", price),
		attribute.String("order_id", orderID),
		attribute.String("status", status),
	)

	allFields := append([]any{
		"type", "TRADE",
		"symbol", symbol,
		"side", side,
		"kind", kind,
		"quantity", qty,
		"price", price,
		"order_id", orderID,
		"status", status,
	}, fields...)
	logWithTrace(ctx, zapcore.InfoLevel, "Order submitted", 2, allFields...)
}

// IsDebugEnabled returns whether detailed logging is enabled
func IsDebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return detailedLogging
}

func toAttributes(fields []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		}
	}
	return attrs
}
