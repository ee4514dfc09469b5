// Package logging provides structured logging configuration for the
// accesslog sinks.
//
// It wraps log/slog to keep the middleware's own emission and the rendered
// access lines on one consistent stack. Create a logger with the desired
// configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
// The package also ships a MultiHandler for fanning one record out to
// several handlers, and a LokiHandler that pushes lines to a Loki endpoint
// so rendered access lines can feed a log aggregation system directly.
//
// Components accept a *slog.Logger; pass logging.Nop() to silence one.
package logging
