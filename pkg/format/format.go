package format

import (
	"fmt"
	"strconv"
)

// DefaultFormat is the format used when none is specified. It mirrors the
// common access-log shape: address, request line, status, size, referer,
// user agent and elapsed seconds.
const DefaultFormat = `%a "%r" %s %b "%{Referer}i" "%{User-Agent}i" %T`

// directiveKind identifies what a compiled segment resolves to.
type directiveKind int

const (
	kindLiteral directiveKind = iota
	kindPercent
	kindStartTime
	kindRemoteAddr
	kindRealIP
	kindRequestLine
	kindMethod
	kindPath
	kindQuery
	kindProto
	kindStatus
	kindBodySize
	kindElapsedSeconds
	kindElapsedMillis
	kindRequestHeader
	kindResponseHeader
	kindEnv
	kindCustomRequest
	kindCustomResponse
)

// segment is one compiled unit of a format string: either a literal text run
// or a directive with an optional decorative sub-format.
type segment struct {
	kind directiveKind

	// text holds the literal run for kindLiteral, or the parameter (header
	// name, environment variable name, custom tag name) for parameterized
	// directives. Unused otherwise.
	text string

	// sub is the decorative "(...)" text following the directive, including
	// the parentheses. Appended verbatim after the resolved value, never
	// re-evaluated. Empty when absent.
	sub string
}

// Format is a compiled format string: an immutable ordered list of segments.
// A Format is safe for concurrent use by any number of Render calls.
type Format struct {
	source   string
	segments []segment
}

// Source returns the format string the Format was compiled from.
func (f *Format) Source() string { return f.source }

// CompileError describes a malformed directive in a format string.
// Offset is the byte offset of the directive's '%' in the source string.
type CompileError struct {
	Offset int
	Reason string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("format: %s at offset %d", e.Reason, e.Offset)
}

// builtinKeys maps single-character directive keys to their kind.
var builtinKeys = map[byte]directiveKind{
	't': kindStartTime,
	'a': kindRemoteAddr,
	'r': kindRequestLine,
	'M': kindMethod,
	'U': kindPath,
	'Q': kindQuery,
	'V': kindProto,
	's': kindStatus,
	'b': kindBodySize,
	'T': kindElapsedSeconds,
	'D': kindElapsedMillis,
}

// IsBuiltinKey reports whether name is a reserved single-character built-in
// directive key. The Registry refuses custom tags under these names so the
// built-in table can never be shadowed.
func IsBuiltinKey(name string) bool {
	if len(name) != 1 {
		return false
	}
	_, ok := builtinKeys[name[0]]
	return ok
}

// quoteList renders multi-valued headers as a bracketed list: ["v1","v2"].
func quoteList(values []string) string {
	out := "["
	for i, v := range values {
		if i > 0 {
			out += ","
		}
		out += strconv.Quote(v)
	}
	return out + "]"
}
