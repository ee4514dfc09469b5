// Package metrics provides a small dependency-free metric registry with
// Prometheus text exposition.
//
// The accesslog middleware uses it to count exchanges and observe request
// durations per method and status class. Metrics are lock-free on the hot
// path: counters and histogram buckets use atomic operations.
package metrics
