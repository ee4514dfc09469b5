package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/getmockd/accesslog/pkg/accesslog"
	"github.com/getmockd/accesslog/pkg/format"
	"github.com/getmockd/accesslog/pkg/logging"
	"github.com/getmockd/accesslog/pkg/metrics"
	"github.com/getmockd/accesslog/pkg/requestlog"
)

// Runtime bundles a built Logger with the components the configuration
// enabled. Store and Metrics are nil unless the config turned them on.
type Runtime struct {
	Logger  *accesslog.Logger
	Store   *requestlog.MemoryStore
	Metrics *metrics.Registry

	logFile *os.File
	loki    *logging.LokiHandler
}

// Close flushes the Loki handler and releases the log file, depending on
// the output target. It is a no-op for stderr and stdout.
func (r *Runtime) Close() error {
	var errs []error
	if r.loki != nil {
		errs = append(errs, r.loki.Close())
	}
	if r.logFile != nil {
		errs = append(errs, r.logFile.Close())
	}
	return errors.Join(errs...)
}

// Build validates the config and constructs the access logger it
// describes. Extra options are applied after the configured ones, so a
// caller can add custom tags or a span factory on top of a file-driven
// setup.
func (c *Config) Build(extra ...accesslog.Option) (*Runtime, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	formatStr := c.Format
	if formatStr == "" {
		formatStr = format.DefaultFormat
	}

	rt := &Runtime{}
	opts, err := c.options(rt)
	if err != nil {
		return nil, err
	}
	opts = append(opts, extra...)

	logger, err := accesslog.New(formatStr, opts...)
	if err != nil {
		if rt.logFile != nil {
			_ = rt.logFile.Close()
		}
		return nil, err
	}
	rt.Logger = logger
	return rt, nil
}

func (c *Config) options(rt *Runtime) ([]accesslog.Option, error) {
	var opts []accesslog.Option

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(c.Logging.Level)
	logCfg.Format = logging.ParseFormat(c.Logging.Format)

	switch c.Output.Target {
	case "", "stderr":
		logCfg.Output = os.Stderr
		opts = append(opts, accesslog.WithLogger(logging.New(logCfg)))
	case "stdout":
		logCfg.Output = os.Stdout
		opts = append(opts, accesslog.WithLogger(logging.New(logCfg)))
	case "file":
		f, err := os.OpenFile(c.Output.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		rt.logFile = f
		logCfg.Output = f
		opts = append(opts, accesslog.WithLogger(logging.New(logCfg)))
	case "loki":
		// Lines are fanned out to stderr and to the Loki push endpoint.
		lokiOpts := []logging.LokiOption{logging.WithLokiLevel(logCfg.Level)}
		if len(c.Output.Labels) > 0 {
			lokiOpts = append(lokiOpts, logging.WithLokiLabels(c.Output.Labels))
		}
		rt.loki = logging.NewLokiHandler(c.Output.URL, lokiOpts...)
		console := logging.New(logCfg).Handler()
		opts = append(opts, accesslog.WithLogger(
			slog.New(logging.NewMultiHandler(console, rt.loki))))
	}

	if len(c.Exclude.Paths) > 0 {
		opts = append(opts, accesslog.Exclude(c.Exclude.Paths...))
	}
	if len(c.Exclude.Patterns) > 0 {
		opts = append(opts, accesslog.ExcludeRegex(c.Exclude.Patterns...))
	}
	if c.Exclude.Condition != "" {
		opts = append(opts, accesslog.ExcludeIf(c.Exclude.Condition))
	}

	if c.Store.Enabled {
		maxEntries := c.Store.MaxEntries
		if maxEntries == 0 {
			maxEntries = DefaultStoreEntries
		}
		rt.Store = requestlog.NewMemoryStore(maxEntries)
		opts = append(opts, accesslog.WithStore(rt.Store))
	}

	if c.Metrics.Enabled {
		rt.Metrics = metrics.NewRegistry()
		opts = append(opts, accesslog.WithMetrics(rt.Metrics))
	}
	return opts, nil
}
