// Package accesslog provides HTTP middleware that renders one formatted log
// line per request/response exchange.
//
// The line layout is driven by a percent-directive format string compiled
// once at construction (see package format for the grammar). Per request the
// middleware captures status and body size through a wrapping
// ResponseWriter, assembles an exchange snapshot after the handler returns,
// renders the line and hands it to a Sink.
//
//	logger, err := accesslog.New(`%a "%r" %s %b %T`)
//	if err != nil {
//	    // malformed format string
//	}
//	http.ListenAndServe(":8080", logger.Middleware()(mux))
//
// Custom tags, path exclusion (exact, regexp or expr condition), a tracing
// span factory, a request-log store and metrics instrumentation are wired
// through options:
//
//	logger, err := accesslog.New(`%a "%r" %s %b %{REQ-ID}xi`,
//	    accesslog.WithRequestTag("REQ-ID", func(r format.RequestView) string {
//	        return r.Headers.Get("X-Request-Id")
//	    }),
//	    accesslog.Exclude("/healthz"),
//	    accesslog.ExcludeIf(`status < 400 && path == "/metrics"`),
//	)
//
// The middleware never writes output itself; sinks do. The default sink
// logs the rendered line at Info level through a slog logger, attaching the
// exchange's trace and span IDs when a span factory is installed.
package accesslog
