package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/getmockd/accesslog/pkg/format"
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks every field that can fail at build time: the format
// string must compile, exclusion patterns must be valid regular
// expressions, the exclusion condition must be a boolean expression and
// enum fields must carry known values. The first error found is returned.
func (c *Config) Validate() error {
	if c.Format != "" {
		if _, err := format.Compile(c.Format); err != nil {
			return &ValidationError{Field: "format", Message: err.Error()}
		}
	}

	switch c.Output.Target {
	case "", "stderr", "stdout":
	case "file":
		if c.Output.Path == "" {
			return &ValidationError{Field: "output.path", Message: "required when target is file"}
		}
	case "loki":
		if c.Output.URL == "" {
			return &ValidationError{Field: "output.url", Message: "required when target is loki"}
		}
	default:
		return &ValidationError{Field: "output.target", Message: fmt.Sprintf("unknown target %q", c.Output.Target)}
	}

	for _, p := range c.Exclude.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return &ValidationError{Field: "exclude.patterns", Message: err.Error()}
		}
	}
	if c.Exclude.Condition != "" {
		if _, err := expr.Compile(c.Exclude.Condition, expr.AsBool()); err != nil {
			return &ValidationError{Field: "exclude.condition", Message: err.Error()}
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return &ValidationError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}

	if c.Store.MaxEntries < 0 {
		return &ValidationError{Field: "store.max_entries", Message: "must not be negative"}
	}
	return nil
}

// IsValidationError reports whether err is a field validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
