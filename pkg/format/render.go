package format

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// placeholder is rendered for absent headers, unset environment variables
// and unregistered custom tags.
const placeholder = "-"

// startTimeLayout is the %t timestamp layout (UTC, second precision).
const startTimeLayout = "2006-01-02T15:04:05"

// Render evaluates the compiled format against one exchange snapshot.
// It is deterministic: the same Format, Context and frozen Registry always
// produce the same line. Segments are independent; no segment observes
// another's output. Individual resolutions degrade to "-" but rendering
// itself never fails.
func (f *Format) Render(ctx *Context, reg *Registry) string {
	var b strings.Builder
	b.Grow(len(f.source) + 64)
	for i := range f.segments {
		seg := &f.segments[i]
		b.WriteString(seg.resolve(ctx, reg))
		b.WriteString(seg.sub)
	}
	return b.String()
}

// resolve computes the value of a single segment. The decorative sub-format
// is handled by the caller.
func (s *segment) resolve(ctx *Context, reg *Registry) string {
	switch s.kind {
	case kindLiteral:
		return s.text
	case kindPercent:
		return "%"
	case kindStartTime:
		return ctx.Start.UTC().Format(startTimeLayout)
	case kindRemoteAddr:
		return orPlaceholder(ctx.RemoteAddr)
	case kindRealIP:
		return orPlaceholder(ctx.RealIP)
	case kindRequestLine:
		return requestLine(ctx)
	case kindMethod:
		return ctx.Method
	case kindPath:
		return ctx.Path
	case kindQuery:
		return orPlaceholder(ctx.Query)
	case kindProto:
		return orPlaceholder(ctx.Proto)
	case kindStatus:
		return strconv.Itoa(ctx.Status)
	case kindBodySize:
		return strconv.FormatInt(ctx.BodySize, 10)
	case kindElapsedSeconds:
		return strconv.FormatFloat(ctx.Elapsed.Seconds(), 'f', 6, 64)
	case kindElapsedMillis:
		ms := float64(ctx.Elapsed.Nanoseconds()) / 1e6
		return strconv.FormatFloat(ms, 'f', 6, 64)
	case kindRequestHeader:
		return headerValue(ctx.RequestHeaders, s.text)
	case kindResponseHeader:
		return headerValue(ctx.ResponseHeaders, s.text)
	case kindEnv:
		if v, ok := os.LookupEnv(s.text); ok {
			return v
		}
		return placeholder
	case kindCustomRequest:
		if fn := reg.requestTag(s.text); fn != nil {
			return fn(ctx.Request())
		}
		return placeholder
	case kindCustomResponse:
		if fn := reg.responseTag(s.text); fn != nil {
			return fn(ctx.Response())
		}
		return placeholder
	}
	return ""
}

// requestLine formats %r as "METHOD PATH?QUERY PROTO", omitting the query
// part when the raw query string is empty.
func requestLine(ctx *Context) string {
	if ctx.Query == "" {
		return ctx.Method + " " + ctx.Path + " " + ctx.Proto
	}
	return ctx.Method + " " + ctx.Path + "?" + ctx.Query + " " + ctx.Proto
}

// headerValue resolves a header directive. Lookup is case-insensitive via
// http.Header canonicalization. A single value renders bare; multiple values
// render as a bracketed quoted list; absence renders the placeholder.
func headerValue(h http.Header, name string) string {
	if h == nil {
		return placeholder
	}
	values := h.Values(name)
	if len(values) == 0 {
		// Headers stored with non-canonical casing are still found.
		for k, v := range h {
			if len(v) > 0 && strings.EqualFold(k, name) {
				values = v
				break
			}
		}
	}
	switch len(values) {
	case 0:
		return placeholder
	case 1:
		return values[0]
	default:
		return quoteList(values)
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
