// Package format implements the access-line template engine.
//
// A format string is compiled once into an immutable Format, then rendered
// per request/response exchange against a Context snapshot. Directives use
// the classic percent syntax:
//
//	%%          literal percent sign
//	%t          exchange start time (UTC, 2006-01-02T15:04:05)
//	%a          remote address
//	%{r}a       real client IP (X-Forwarded-For / X-Real-IP chain)
//	%r          request line: METHOD PATH?QUERY PROTO
//	%M          request method
//	%U          request path (no query)
//	%Q          raw query string
//	%V          HTTP protocol version
//	%s          response status code
//	%b          response body size in bytes
//	%T          elapsed time in seconds (fractional)
//	%D          elapsed time in milliseconds (fractional)
//	%{NAME}i    request header NAME
//	%{NAME}o    response header NAME
//	%{NAME}e    environment variable NAME
//	%{NAME}xi   custom request tag NAME (see Registry)
//	%{NAME}xo   custom response tag NAME (see Registry)
//
// Any directive may be followed immediately by parenthesized text, e.g.
// "%b(bytes)". The parenthesized text is decorative: it is appended verbatim
// after the resolved value and is never evaluated as a template, even if it
// contains percent signs.
//
// Absent headers, unset environment variables and unregistered custom tags
// render as "-". Headers with multiple values render as a bracketed list
// like ["v1","v2"].
//
// Compilation is atomic: a malformed directive fails the whole Compile call
// with a *CompileError carrying the byte offset of the offending directive.
// A compiled Format and a frozen Registry are immutable and safe for
// concurrent renders without locking.
package format
