// Package id provides unique identifier generation for log entries and
// request correlation tags.
package id

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// UUID generates a UUID v4 string.
func UUID() string {
	return uuid.NewString()
}

// Entry generates a request-log entry ID with a recognizable prefix.
func Entry() string {
	return "req-" + Short()
}

// Short generates a 16-character hex ID for user-facing contexts where
// brevity matters. It is the leading half of a UUID v4.
func Short() string {
	u := uuid.New()
	return hex.EncodeToString(u[:8])
}
