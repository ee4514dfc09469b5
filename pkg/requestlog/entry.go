package requestlog

import "time"

// Entry captures one logged request/response exchange: the rendered access
// line plus the structured fields it was built from.
type Entry struct {
	// ID is a unique identifier for the log entry.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// Line is the rendered access-log line.
	Line string `json:"line"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// Path is the request URL path.
	Path string `json:"path"`

	// QueryString is the raw query string.
	QueryString string `json:"queryString,omitempty"`

	// RemoteAddr is the client address.
	RemoteAddr string `json:"remoteAddr"`

	// Status is the response status code.
	Status int `json:"status"`

	// BodySize is the response body size in bytes.
	BodySize int64 `json:"bodySize"`

	// DurationMs is the request processing time in milliseconds.
	DurationMs float64 `json:"durationMs"`

	// TraceID and SpanID correlate the entry with a tracing span, when the
	// middleware ran with a span factory.
	TraceID string `json:"traceId,omitempty"`
	SpanID  string `json:"spanId,omitempty"`
}

// Filter defines criteria for listing entries.
type Filter struct {
	// Method filters by HTTP method.
	Method string

	// Path filters by path prefix.
	Path string

	// Status filters by response status code.
	Status int

	// MinDurationMs keeps only entries at least this slow.
	MinDurationMs float64

	// Limit is the maximum number of entries to return.
	Limit int

	// Offset is the number of entries to skip.
	Offset int
}
