package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileLiteralOnly(t *testing.T) {
	tests := []string{
		"",
		"plain text",
		"with spaces   and\ttabs",
		"unicode: héllo → wörld",
		"(parens without a directive)",
		"}closing brace{",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			f, err := Compile(src)
			require.NoError(t, err)
			got := f.Render(&Context{}, nil)
			assert.Equal(t, src, got, "literal-only template must round-trip unchanged")
		})
	}
}

func TestCompileDirectives(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		segments int
	}{
		{"single builtin", "%s", 1},
		{"builtin with literal", "status=%s", 2},
		{"request header", "%{User-Agent}i", 1},
		{"response header", "%{Content-Type}o", 1},
		{"env directive", "%{HOME}e", 1},
		{"custom request tag", "%{FOO}xi", 1},
		{"custom response tag", "%{FOO}xo", 1},
		{"real ip", "%{r}a", 1},
		{"default format", DefaultFormat, 13},
		{"sub format", "%b(bytes)", 1},
		{"escape", "100%%", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.src)
			require.NoError(t, err)
			assert.Len(t, f.segments, tt.segments)
			assert.Equal(t, tt.src, f.Source())
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		offset int
	}{
		{"unknown key", "%Z", 0},
		{"unknown key after literal", "abc %Z", 4},
		{"unterminated brace", "%{FOO", 0},
		{"empty brace", "%{}i", 0},
		{"invalid name byte", "%{F O}i", 0},
		{"missing suffix", "%{FOO}", 0},
		{"bad brace suffix", "%{FOO}z", 0},
		{"peer addr label", "%{x}a", 0},
		{"trailing percent", "ok %", 3},
		{"unterminated sub format", "%b(bytes", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.src)
			require.Error(t, err)
			assert.Nil(t, f, "compilation must fail atomically")

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.offset, ce.Offset)
		})
	}
}

func TestCompilePercentEscape(t *testing.T) {
	f, err := Compile("%%")
	require.NoError(t, err)
	assert.Equal(t, "%", f.Render(&Context{}, nil))

	// The escape never triggers directive parsing, even when followed by a
	// directive-looking key.
	f, err = Compile("%%s")
	require.NoError(t, err)
	assert.Equal(t, "%s", f.Render(&Context{Status: 200}, nil))
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("%Z") })
	assert.NotPanics(t, func() { MustCompile(DefaultFormat) })
}
