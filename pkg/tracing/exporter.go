package tracing

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Exporter receives completed spans.
type Exporter interface {
	Export(span *Span) error
}

// WriterExporter writes each completed span to w as a JSON line.
type WriterExporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterExporter creates an exporter writing JSON lines to w.
// A nil writer defaults to stdout.
func NewWriterExporter(w io.Writer) *WriterExporter {
	if w == nil {
		w = os.Stdout
	}
	return &WriterExporter{w: w}
}

// Export writes the span as one JSON line.
func (e *WriterExporter) Export(span *Span) error {
	data, err := json.Marshal(span)
	if err != nil {
		return fmt.Errorf("failed to marshal span: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err = fmt.Fprintln(e.w, string(data))
	return err
}

// SlogExporter logs completed spans through a slog.Logger at debug level.
type SlogExporter struct {
	logger *slog.Logger
}

// NewSlogExporter creates an exporter logging spans via logger.
func NewSlogExporter(logger *slog.Logger) *SlogExporter {
	return &SlogExporter{logger: logger}
}

// Export logs the span's identifiers and timing.
func (e *SlogExporter) Export(span *Span) error {
	e.logger.Debug("span completed",
		"name", span.Name,
		"trace_id", span.TraceID,
		"span_id", span.SpanID,
		"duration_ms", float64(span.EndTime.Sub(span.StartTime).Nanoseconds())/1e6,
		"status", span.Status.String(),
	)
	return nil
}
