package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartGeneratesIDs(t *testing.T) {
	tracer := NewTracer("accesslog-test")

	ctx, span := tracer.Start(context.Background(), "HTTP GET /index")
	defer span.End()

	assert.Len(t, span.TraceID, 32)
	assert.Len(t, span.SpanID, 16)
	assert.Empty(t, span.ParentID)
	assert.Equal(t, "accesslog-test", span.Attributes["service.name"])
	assert.Same(t, span, SpanFromContext(ctx))
}

func TestStartChildJoinsTrace(t *testing.T) {
	tracer := NewTracer("svc")

	ctx, parent := tracer.Start(context.Background(), "parent")
	_, child := tracer.Start(ctx, "child")

	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.NotEqual(t, parent.SpanID, child.SpanID)
}

func TestEndIsIdempotentAndExportsOnce(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewTracer("svc", WithExporter(NewWriterExporter(&buf)))

	_, span := tracer.Start(context.Background(), "op")
	span.SetStatus(StatusOK, "")
	span.End()
	span.End()

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 1, lines, "double End must export once")

	var exported Span
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	assert.Equal(t, "op", exported.Name)
	assert.Equal(t, span.TraceID, exported.TraceID)
}

func TestAttributesIgnoredAfterEnd(t *testing.T) {
	tracer := NewTracer("svc")
	_, span := tracer.Start(context.Background(), "op")
	span.End()

	span.SetAttribute("late", "value")
	span.SetStatus(StatusError, "late")
	assert.NotContains(t, span.Attributes, "late")
	assert.Equal(t, StatusUnset, span.Status)
}

func TestExtractInjectRoundTrip(t *testing.T) {
	headers := http.Header{}
	headers.Set(TraceparentHeader, "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")

	ctx := Extract(context.Background(), headers)
	sc := SpanContextFromContext(ctx)
	require.True(t, sc.IsValid())
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", sc.TraceID)
	assert.Equal(t, "b7ad6b7169203331", sc.SpanID)
	assert.True(t, sc.Sampled)

	out := http.Header{}
	Inject(ctx, out)
	assert.Equal(t, "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01", out.Get(TraceparentHeader))
}

func TestExtractChildContinuesTrace(t *testing.T) {
	headers := http.Header{}
	headers.Set(TraceparentHeader, "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")

	ctx := Extract(context.Background(), headers)
	_, span := NewTracer("svc").Start(ctx, "op")
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", span.TraceID)
	assert.Equal(t, "b7ad6b7169203331", span.ParentID)
}

func TestParseTraceparentRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"garbage",
		"00-short-b7ad6b7169203331-01",
		"00-0af7651916cd43dd8448eb211c80319c-short-01",
		"00-00000000000000000000000000000000-b7ad6b7169203331-01",
		"00-0af7651916cd43dd8448eb211c80319c-0000000000000000-01",
		"00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331",
		"zz-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01",
	}
	for _, tp := range tests {
		_, ok := parseTraceparent(tp)
		assert.False(t, ok, "traceparent %q should be rejected", tp)
	}
}

func TestTraceIDFromContext(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
	assert.Empty(t, SpanIDFromContext(context.Background()))

	ctx, span := NewTracer("svc").Start(context.Background(), "op")
	assert.Equal(t, span.TraceID, TraceIDFromContext(ctx))
	assert.Equal(t, span.SpanID, SpanIDFromContext(ctx))
}
