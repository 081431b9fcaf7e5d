package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	programLevel = new(slog.LevelVar)
	shutdownFunc func(context.Context) error
)

// Options controls how Setup builds the process logger.
type Options struct {
	Service string
	Level   string
	OTEL    bool
	Output  io.Writer
}

// Setup installs the process-wide slog logger and returns it.
// When OTEL is requested but the exporter cannot be built, logs fall back to JSON.
func Setup(ctx context.Context, opts Options) *slog.Logger {
	level, err := ParseLevel(opts.Level)
	setLevel(level)

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var l *slog.Logger
	if opts.OTEL {
		handler, shutdown, otelErr := newOTELHandler(ctx, opts.Service)
		if otelErr != nil {
			fmt.Fprintf(os.Stderr, "otel logging unavailable, using JSON: %v\n", otelErr)
		} else {
			shutdownFunc = shutdown
			l = slog.New(handler)
		}
	}
	if l == nil {
		l = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: programLevel}))
	}
	l = l.With("service", opts.Service)
	slog.SetDefault(l)

	if err != nil {
		l.Warn("invalid LOG_LEVEL, using INFO", "value", opts.Level)
	}
	return l
}

func newOTELHandler(ctx context.Context, service string) (slog.Handler, func(context.Context) error, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(service)))
	if err != nil {
		return nil, nil, fmt.Errorf("create resource: %w", err)
	}

	exporter, err := otlploggrpc.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)

	handler := &levelHandler{
		level:   programLevel,
		handler: otelslog.NewHandler(service, otelslog.WithLoggerProvider(provider)),
	}
	return handler, provider.Shutdown, nil
}

// levelHandler filters records below the program level before they reach the bridge.
type levelHandler struct {
	level   slog.Leveler
	handler slog.Handler
}

func (h *levelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handler.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, handler: h.handler.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, handler: h.handler.WithGroup(name)}
}

// Shutdown flushes the OTEL exporter, if one was installed.
func Shutdown(ctx context.Context) error {
	if shutdownFunc != nil {
		return shutdownFunc(ctx)
	}
	return nil
}

func setLevel(level slog.Level) {
	programLevel.Set(level)
}

// ParseLevel converts a level name to slog.Level. Empty means INFO.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "", "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// Fatal logs at error level, flushes exporters and exits.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	_ = Shutdown(context.Background())
	os.Exit(1)
}
