package tracing

import (
	"context"
	"net/http"
	"strings"
)

// TraceparentHeader is the W3C Trace Context traceparent header name.
const TraceparentHeader = "traceparent"

const traceparentVersion = "00"

// Extract pulls a W3C traceparent out of the request headers. If the header
// is absent or malformed the context is returned unchanged.
//
// Format: {version}-{trace-id}-{parent-id}-{flags}, e.g.
// 00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01.
func Extract(ctx context.Context, headers http.Header) context.Context {
	sc, ok := parseTraceparent(headers.Get(TraceparentHeader))
	if !ok {
		return ctx
	}
	return contextWithSpanContext(ctx, sc)
}

// Inject writes the current trace context into headers as a traceparent.
// No-op when ctx carries neither a span nor an extracted span context.
func Inject(ctx context.Context, headers http.Header) {
	if span := SpanFromContext(ctx); span != nil {
		headers.Set(TraceparentHeader, formatTraceparent(span.TraceID, span.SpanID, true))
		return
	}
	if sc := SpanContextFromContext(ctx); sc.IsValid() {
		headers.Set(TraceparentHeader, formatTraceparent(sc.TraceID, sc.SpanID, sc.Sampled))
	}
}

func parseTraceparent(tp string) (SpanContext, bool) {
	parts := strings.Split(tp, "-")
	if len(parts) != 4 {
		return SpanContext{}, false
	}
	version, traceID, spanID, flags := parts[0], parts[1], parts[2], parts[3]

	if len(version) != 2 || len(flags) != 2 || !isHex(version) || !isHex(flags) {
		return SpanContext{}, false
	}
	if len(traceID) != 32 || !isHex(traceID) || traceID == strings.Repeat("0", 32) {
		return SpanContext{}, false
	}
	if len(spanID) != 16 || !isHex(spanID) || spanID == strings.Repeat("0", 16) {
		return SpanContext{}, false
	}

	sampled := flags == "01" || flags == "03"
	return SpanContext{TraceID: traceID, SpanID: spanID, Sampled: sampled}, true
}

func formatTraceparent(traceID, spanID string, sampled bool) string {
	flags := "00"
	if sampled {
		flags = "01"
	}
	return traceparentVersion + "-" + traceID + "-" + spanID + "-" + flags
}

func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
