package format

import "strings"

// Compile parses a format string into a Format. Compilation is atomic: any
// malformed directive fails the whole call with a *CompileError and no
// Format is produced. Compile performs no I/O and has no side effects.
func Compile(source string) (*Format, error) {
	var segs []segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segs = append(segs, segment{kind: kindLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	i := 0
	for i < len(source) {
		c := source[i]
		if c != '%' {
			literal.WriteByte(c)
			i++
			continue
		}

		start := i
		if i+1 >= len(source) {
			return nil, &CompileError{Offset: start, Reason: "truncated directive"}
		}

		// %% is the escape for a literal percent sign. It never takes a
		// sub-format, so "%%(x)" renders as "%(x)".
		if source[i+1] == '%' {
			flush()
			segs = append(segs, segment{kind: kindPercent})
			i += 2
			continue
		}

		seg, end, err := parseDirective(source, start)
		if err != nil {
			return nil, err
		}
		i = end

		// Optional decorative sub-format immediately after the directive.
		if i < len(source) && source[i] == '(' {
			n := strings.IndexByte(source[i:], ')')
			if n < 0 {
				return nil, &CompileError{Offset: i, Reason: "unterminated sub-format parenthesis"}
			}
			seg.sub = source[i : i+n+1]
			i += n + 1
		}

		flush()
		segs = append(segs, seg)
	}
	flush()

	return &Format{source: source, segments: segs}, nil
}

// MustCompile is like Compile but panics on error. Intended for package-level
// format constants known to be valid.
func MustCompile(source string) *Format {
	f, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return f
}

// parseDirective parses one directive starting at the '%' at offset start.
// It returns the compiled segment and the offset just past the directive.
func parseDirective(source string, start int) (segment, int, error) {
	i := start + 1

	// Parameterized form: %{NAME}suffix
	if source[i] == '{' {
		name, end, ok := scanBraceName(source, i+1)
		if !ok {
			return segment{}, 0, &CompileError{Offset: start, Reason: "unterminated or invalid brace parameter"}
		}
		i = end // first byte after '}'

		switch {
		case strings.HasPrefix(source[i:], "xi"):
			return segment{kind: kindCustomRequest, text: name}, i + 2, nil
		case strings.HasPrefix(source[i:], "xo"):
			return segment{kind: kindCustomResponse, text: name}, i + 2, nil
		case i < len(source) && source[i] == 'i':
			return segment{kind: kindRequestHeader, text: name}, i + 1, nil
		case i < len(source) && source[i] == 'o':
			return segment{kind: kindResponseHeader, text: name}, i + 1, nil
		case i < len(source) && source[i] == 'e':
			return segment{kind: kindEnv, text: name}, i + 1, nil
		case i < len(source) && source[i] == 'a':
			// Only %{r}a exists: the real client IP.
			if name != "r" {
				return segment{}, 0, &CompileError{Offset: start, Reason: "unknown directive %{" + name + "}a"}
			}
			return segment{kind: kindRealIP}, i + 1, nil
		default:
			return segment{}, 0, &CompileError{Offset: start, Reason: "missing directive suffix after }"}
		}
	}

	kind, ok := builtinKeys[source[i]]
	if !ok {
		return segment{}, 0, &CompileError{Offset: start, Reason: "unknown directive %" + string(source[i])}
	}
	return segment{kind: kind}, i + 1, nil
}

// scanBraceName scans a {NAME} parameter starting just past the '{'.
// Names are limited to letters, digits, '-' and '_', and must be non-empty.
// Returns the name and the offset just past the '}'.
func scanBraceName(source string, from int) (string, int, bool) {
	i := from
	for i < len(source) {
		c := source[i]
		if c == '}' {
			if i == from {
				return "", 0, false
			}
			return source[from:i], i + 1, true
		}
		if !isNameByte(c) {
			return "", 0, false
		}
		i++
	}
	return "", 0, false
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}
