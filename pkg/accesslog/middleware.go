package accesslog

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"

	"github.com/getmockd/accesslog/pkg/format"
	"github.com/getmockd/accesslog/pkg/requestlog"
	"github.com/getmockd/accesslog/pkg/tracing"
)

// SpanFactory derives a correlation span from the incoming request. It is
// invoked once per exchange before the handler runs; the returned context
// flows into the handler and the rendered line is emitted inside it.
type SpanFactory func(ctx context.Context, r *http.Request) (context.Context, *tracing.Span)

// TracerSpanFactory returns a SpanFactory that continues an incoming W3C
// trace (if any) and starts a span named "HTTP METHOD /path" on t.
func TracerSpanFactory(t *tracing.Tracer) SpanFactory {
	return func(ctx context.Context, r *http.Request) (context.Context, *tracing.Span) {
		ctx = tracing.Extract(ctx, r.Header)
		return t.Start(ctx, "HTTP "+r.Method+" "+r.URL.Path)
	}
}

// Middleware returns the http.Handler wrapper. Excluded paths are served
// without logging; everything else is rendered and emitted after the
// handler returns.
func (l *Logger) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.skipPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			l.serve(w, r, next)
		})
	}
}

// Wrap is shorthand for Middleware()(next).
func (l *Logger) Wrap(next http.Handler) http.Handler {
	return l.Middleware()(next)
}

func (l *Logger) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	start := time.Now()

	// Snapshot request fields up front; handlers like http.StripPrefix
	// mutate the URL in place, and header directives must see the headers
	// as they arrived, not as the handler left them.
	method := r.Method
	path := r.URL.Path
	query := r.URL.RawQuery
	proto := r.Proto
	reqHeaders := r.Header.Clone()
	rip := realIP(r)

	ctx := r.Context()
	var span *tracing.Span
	if l.spanFactory != nil {
		ctx, span = l.spanFactory(ctx, r)
		r = r.WithContext(ctx)
	}

	rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
	next.ServeHTTP(rec, r)
	elapsed := time.Since(start)

	fctx := &format.Context{
		Method:          method,
		Path:            path,
		Query:           query,
		Proto:           proto,
		RemoteAddr:      r.RemoteAddr,
		RealIP:          rip,
		Start:           start,
		RequestHeaders:  reqHeaders,
		Status:          rec.status,
		BodySize:        rec.bytes,
		ResponseHeaders: rec.Header(),
		Elapsed:         elapsed,
	}

	if span != nil {
		finishSpan(span, fctx)
		defer span.End()
	}

	if l.metricsEnabled() {
		l.record(fctx)
	}

	if l.excludeIf != nil && l.conditionMatches(fctx) {
		return
	}

	line := l.format.Render(fctx, l.registry)
	l.sink.Emit(ctx, line)

	if l.store != nil {
		l.store.Log(&requestlog.Entry{
			Timestamp:   start,
			Line:        line,
			Method:      method,
			Path:        path,
			QueryString: query,
			RemoteAddr:  r.RemoteAddr,
			Status:      rec.status,
			BodySize:    rec.bytes,
			DurationMs:  float64(elapsed.Nanoseconds()) / 1e6,
			TraceID:     tracing.TraceIDFromContext(ctx),
			SpanID:      tracing.SpanIDFromContext(ctx),
		})
	}
}

func (l *Logger) skipPath(path string) bool {
	if _, ok := l.exclude[path]; ok {
		return true
	}
	for _, re := range l.excludeRegex {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// conditionMatches evaluates the compiled ExcludeIf program against the
// finished exchange. Evaluation errors keep the line: suppression is best
// effort, losing log lines to a bad condition is worse.
func (l *Logger) conditionMatches(fctx *format.Context) bool {
	env := map[string]interface{}{
		"method":      fctx.Method,
		"path":        fctx.Path,
		"query":       fctx.Query,
		"status":      fctx.Status,
		"bytes":       fctx.BodySize,
		"remote_addr": fctx.RemoteAddr,
		"duration_ms": float64(fctx.Elapsed.Nanoseconds()) / 1e6,
	}
	out, err := expr.Run(l.excludeIf, env)
	if err != nil {
		return false
	}
	matched, _ := out.(bool)
	return matched
}

func (l *Logger) metricsEnabled() bool {
	return l.requestsTotal != nil
}

func (l *Logger) record(fctx *format.Context) {
	_ = l.requestsTotal.Inc(fctx.Method, strconv.Itoa(fctx.Status))
	_ = l.requestDuration.Observe(fctx.Elapsed.Seconds(), fctx.Method)
}

// finishSpan attaches exchange attributes and status to the span before it
// ends.
func finishSpan(span *tracing.Span, fctx *format.Context) {
	span.SetAttribute("http.method", fctx.Method)
	span.SetAttribute("http.target", fctx.Path)
	span.SetAttribute("http.status_code", strconv.Itoa(fctx.Status))
	switch {
	case fctx.Status >= 500:
		span.SetStatus(tracing.StatusError, "HTTP server error: "+strconv.Itoa(fctx.Status))
	case fctx.Status >= 400:
		span.SetStatus(tracing.StatusError, "HTTP client error: "+strconv.Itoa(fctx.Status))
	default:
		span.SetStatus(tracing.StatusOK, "")
	}
}

// realIP resolves the real client address the way reverse proxies report
// it: first X-Forwarded-For hop, then X-Real-IP, then the socket address.
func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-Ip"); rip != "" {
		return rip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
