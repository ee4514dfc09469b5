// Package tracing provides lightweight correlation spans for access logging.
//
// A Span is an opaque handle that ties the rendered access line to other log
// statements made while handling the same request. The middleware's span
// factory creates one span per exchange; the span's trace and span IDs
// travel with the request context and are attached to everything emitted
// during the exchange.
//
// Incoming W3C traceparent headers are honored: Extract pulls the upstream
// trace context out of the request headers so the access line joins an
// existing trace, and Inject writes the current context into outgoing
// headers.
//
// The package does not implement a full tracing backend. Completed spans are
// handed to an optional Exporter; the bundled exporters write them to an
// io.Writer as JSON or to a slog.Logger.
package tracing
