package accesslog

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/getmockd/accesslog/pkg/format"
	"github.com/getmockd/accesslog/pkg/logging"
	"github.com/getmockd/accesslog/pkg/metrics"
	"github.com/getmockd/accesslog/pkg/requestlog"
)

// Logger owns a compiled format, a frozen custom-tag registry and the
// emission wiring for one middleware instance. Construct it once at startup;
// it is immutable afterwards and safe for concurrent requests.
type Logger struct {
	format      *format.Format
	registry    *format.Registry
	sink        Sink
	spanFactory SpanFactory

	exclude      map[string]struct{}
	excludeRegex []*regexp.Regexp
	excludeIf    *vm.Program

	store requestlog.Logger

	requestsTotal   *metrics.Counter
	requestDuration *metrics.Histogram
}

// Option configures a Logger during New.
type Option func(*Logger) error

// New compiles the format string and applies the options. The returned
// Logger is ready to serve; its registry is frozen so no further tags can be
// registered.
func New(formatStr string, opts ...Option) (*Logger, error) {
	f, err := format.Compile(formatStr)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		format:   f,
		registry: format.NewRegistry(),
		exclude:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	if l.sink == nil {
		l.sink = NewSlogSink(logging.New(logging.DefaultConfig()))
	}
	l.registry.Freeze()
	return l, nil
}

// Default creates a Logger with the default access-log format and sink.
func Default() *Logger {
	l, err := New(format.DefaultFormat)
	if err != nil {
		// DefaultFormat is a package constant known to compile.
		panic(err)
	}
	return l
}

// Format returns the compiled format.
func (l *Logger) Format() *format.Format { return l.format }

// WithSink routes rendered lines to s instead of the default slog sink.
func WithSink(s Sink) Option {
	return func(l *Logger) error {
		l.sink = s
		return nil
	}
}

// WithLogger routes rendered lines to logger at Info level.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Logger) error {
		l.sink = NewSlogSink(logger)
		return nil
	}
}

// WithSpanFactory installs the per-request span factory. The rendered line
// is emitted while the produced span is active, so external aggregation can
// correlate it with other log statements from the same request.
func WithSpanFactory(f SpanFactory) Option {
	return func(l *Logger) error {
		l.spanFactory = f
		return nil
	}
}

// WithRequestTag registers a custom request tag for %{name}xi directives.
// It is convention to return "-" to indicate no output instead of "".
func WithRequestTag(name string, fn format.RequestTagFunc) Option {
	return func(l *Logger) error {
		return l.registry.RegisterRequestTag(name, fn)
	}
}

// WithResponseTag registers a custom response tag for %{name}xo directives.
func WithResponseTag(name string, fn format.ResponseTagFunc) Option {
	return func(l *Logger) error {
		return l.registry.RegisterResponseTag(name, fn)
	}
}

// Exclude disables logging for requests whose path equals one of paths.
// The handler still runs; only the line is suppressed.
func Exclude(paths ...string) Option {
	return func(l *Logger) error {
		for _, p := range paths {
			l.exclude[p] = struct{}{}
		}
		return nil
	}
}

// ExcludeRegex disables logging for paths matching any of the patterns.
func ExcludeRegex(patterns ...string) Option {
	return func(l *Logger) error {
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return fmt.Errorf("invalid exclude pattern %q: %w", p, err)
			}
			l.excludeRegex = append(l.excludeRegex, re)
		}
		return nil
	}
}

// ExcludeIf disables logging for exchanges where the expr condition
// evaluates to true. The condition sees method, path, query, status, bytes,
// remote_addr and duration_ms, and is evaluated after the response is known:
//
//	accesslog.ExcludeIf(`status < 400 && duration_ms < 100`)
func ExcludeIf(condition string) Option {
	return func(l *Logger) error {
		program, err := expr.Compile(condition, expr.AsBool())
		if err != nil {
			return fmt.Errorf("invalid exclude condition: %w", err)
		}
		l.excludeIf = program
		return nil
	}
}

// WithStore records each logged exchange in store alongside the sink.
func WithStore(store requestlog.Logger) Option {
	return func(l *Logger) error {
		l.store = store
		return nil
	}
}

// WithMetrics registers exchange metrics on reg: a request counter labelled
// by method and status, and a duration histogram labelled by method.
func WithMetrics(reg *metrics.Registry) Option {
	return func(l *Logger) error {
		var err error
		l.requestsTotal, err = reg.NewCounter(
			"http_requests_total", "Total HTTP requests seen by the access logger.",
			"method", "status")
		if err != nil {
			return err
		}
		l.requestDuration, err = reg.NewHistogram(
			"http_request_duration_seconds", "HTTP request duration in seconds.",
			metrics.DefaultDurationBuckets, "method")
		return err
	}
}
