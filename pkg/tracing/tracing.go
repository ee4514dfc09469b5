package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Status classifies how the spanned operation ended.
type Status int

const (
	// StatusUnset is the default status.
	StatusUnset Status = iota
	// StatusOK indicates the operation completed successfully.
	StatusOK
	// StatusError indicates the operation failed.
	StatusError
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	default:
		return "UNSET"
	}
}

// Span is a single request-scoped unit of work. The access-log middleware
// treats it as an opaque correlation handle: it starts one before the
// handler runs and ends it after the rendered line is emitted.
type Span struct {
	TraceID       string            `json:"traceId"`
	SpanID        string            `json:"spanId"`
	ParentID      string            `json:"parentId,omitempty"`
	Name          string            `json:"name"`
	StartTime     time.Time         `json:"startTime"`
	EndTime       time.Time         `json:"endTime,omitempty"`
	Status        Status            `json:"status"`
	StatusMessage string            `json:"statusMessage,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`

	mu     sync.Mutex
	tracer *Tracer
	ended  bool
}

// End marks the span as ended and hands it to the tracer's exporter.
// Ending a span twice is a no-op.
func (s *Span) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.EndTime = time.Now()
	tracer := s.tracer
	s.mu.Unlock()

	if tracer != nil {
		tracer.export(s)
	}
}

// SetAttribute sets a key-value attribute. Calls after End are ignored.
func (s *Span) SetAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	if s.Attributes == nil {
		s.Attributes = make(map[string]string)
	}
	s.Attributes[key] = value
}

// SetStatus records how the operation ended. Calls after End are ignored.
func (s *Span) SetStatus(status Status, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.Status = status
	s.StatusMessage = message
}

// Context returns the propagation values of the span.
func (s *Span) Context() SpanContext {
	return SpanContext{TraceID: s.TraceID, SpanID: s.SpanID, Sampled: true}
}

// SpanContext holds the trace identifiers carried across process boundaries.
type SpanContext struct {
	TraceID string
	SpanID  string
	Sampled bool
}

// IsValid reports whether both identifiers are present.
func (sc SpanContext) IsValid() bool {
	return sc.TraceID != "" && sc.SpanID != ""
}

// Tracer creates spans. The zero value is usable: spans are created with
// fresh IDs and discarded on End.
type Tracer struct {
	service  string
	exporter Exporter
}

// TracerOption configures a Tracer.
type TracerOption func(*Tracer)

// WithExporter sets where completed spans are sent.
func WithExporter(e Exporter) TracerOption {
	return func(t *Tracer) { t.exporter = e }
}

// NewTracer creates a Tracer for the given service name.
func NewTracer(service string, opts ...TracerOption) *Tracer {
	t := &Tracer{service: service}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start creates a span named name. If ctx already carries a span or an
// extracted upstream span context, the new span joins that trace as a child;
// otherwise a fresh trace ID is generated. The returned context carries the
// new span.
func (t *Tracer) Start(ctx context.Context, name string) (context.Context, *Span) {
	var traceID, parentID string
	if parent := SpanFromContext(ctx); parent != nil {
		traceID = parent.TraceID
		parentID = parent.SpanID
	} else if sc := SpanContextFromContext(ctx); sc.IsValid() {
		traceID = sc.TraceID
		parentID = sc.SpanID
	}
	if traceID == "" {
		traceID = newTraceID()
	}

	span := &Span{
		TraceID:   traceID,
		SpanID:    newSpanID(),
		ParentID:  parentID,
		Name:      name,
		StartTime: time.Now(),
		tracer:    t,
	}
	if t.service != "" {
		span.Attributes = map[string]string{"service.name": t.service}
	}
	return ContextWithSpan(ctx, span), span
}

// Service returns the tracer's service name.
func (t *Tracer) Service() string { return t.service }

func (t *Tracer) export(span *Span) {
	if t.exporter != nil {
		_ = t.exporter.Export(span)
	}
}

// newTraceID generates a random 16-byte trace ID as a hex string.
func newTraceID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// newSpanID generates a random 8-byte span ID as a hex string.
func newSpanID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

type spanKey struct{}
type spanContextKey struct{}

// ContextWithSpan returns a context carrying the span.
func ContextWithSpan(ctx context.Context, span *Span) context.Context {
	return context.WithValue(ctx, spanKey{}, span)
}

// SpanFromContext returns the span carried by ctx, or nil.
func SpanFromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(spanKey{}).(*Span)
	return span
}

func contextWithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanContextKey{}, sc)
}

// SpanContextFromContext returns an extracted upstream span context, if any.
func SpanContextFromContext(ctx context.Context) SpanContext {
	sc, _ := ctx.Value(spanContextKey{}).(SpanContext)
	return sc
}

// TraceIDFromContext returns the trace ID in effect for ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if span := SpanFromContext(ctx); span != nil {
		return span.TraceID
	}
	if sc := SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID
	}
	return ""
}

// SpanIDFromContext returns the span ID in effect for ctx, or "".
func SpanIDFromContext(ctx context.Context) string {
	if span := SpanFromContext(ctx); span != nil {
		return span.SpanID
	}
	if sc := SpanContextFromContext(ctx); sc.IsValid() {
		return sc.SpanID
	}
	return ""
}
