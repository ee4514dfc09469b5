// Package requestlog stores recent access-log entries in memory for
// inspection.
//
// Each Entry pairs the rendered access line with the structured fields it
// was rendered from, so operators can both read the line and filter on
// method, path or status. The MemoryStore keeps a bounded FIFO buffer and
// supports non-blocking subscriber channels for live tailing.
package requestlog
