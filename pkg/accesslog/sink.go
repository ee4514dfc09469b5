package accesslog

import (
	"context"
	"log/slog"

	"github.com/getmockd/accesslog/pkg/tracing"
)

// Sink receives finished rendered lines. Implementations own the actual
// output (console, file, network) and any line-level prefixing such as a
// wall-clock timestamp or severity; the engine never writes output itself.
type Sink interface {
	Emit(ctx context.Context, line string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, line string)

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, line string) { f(ctx, line) }

// slogSink logs rendered lines at Info level, attaching trace correlation
// IDs carried by the emission context.
type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a Sink that logs each line through logger.
func NewSlogSink(logger *slog.Logger) Sink {
	return &slogSink{logger: logger}
}

func (s *slogSink) Emit(ctx context.Context, line string) {
	if traceID := tracing.TraceIDFromContext(ctx); traceID != "" {
		s.logger.LogAttrs(ctx, slog.LevelInfo, line,
			slog.String("trace_id", traceID),
			slog.String("span_id", tracing.SpanIDFromContext(ctx)),
		)
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, line)
}
