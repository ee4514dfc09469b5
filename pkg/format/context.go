package format

import (
	"net/http"
	"time"
)

// Context is a read-only snapshot of one request/response exchange.
// The middleware assembles it once the response is known and hands it to a
// single Render call; it must not be shared across renders or mutated after
// construction.
type Context struct {
	// Request side.
	Method         string
	Path           string
	Query          string
	Proto          string
	RemoteAddr     string
	RealIP         string
	Start          time.Time
	RequestHeaders http.Header

	// Response side.
	Status          int
	BodySize        int64
	ResponseHeaders http.Header

	// Elapsed is the wall-clock duration between request start and
	// response-ready time, measured by the caller. Render only formats it.
	Elapsed time.Duration
}

// RequestView is the read-only request slice of a Context handed to custom
// request-tag evaluators.
type RequestView struct {
	Method     string
	Path       string
	Query      string
	Proto      string
	RemoteAddr string
	RealIP     string
	Start      time.Time
	Headers    http.Header
}

// ResponseView is the read-only response slice of a Context handed to custom
// response-tag evaluators.
type ResponseView struct {
	Status   int
	BodySize int64
	Headers  http.Header
}

// Request returns the request view of the context.
func (c *Context) Request() RequestView {
	return RequestView{
		Method:     c.Method,
		Path:       c.Path,
		Query:      c.Query,
		Proto:      c.Proto,
		RemoteAddr: c.RemoteAddr,
		RealIP:     c.RealIP,
		Start:      c.Start,
		Headers:    c.RequestHeaders,
	}
}

// Response returns the response view of the context.
func (c *Context) Response() ResponseView {
	return ResponseView{
		Status:   c.Status,
		BodySize: c.BodySize,
		Headers:  c.ResponseHeaders,
	}
}
