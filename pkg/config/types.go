package config

// Config is the on-disk representation of an access-log setup.
type Config struct {
	// Format is the access-log format string. Empty means the package
	// default format.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	Output  OutputConfig  `json:"output,omitempty" yaml:"output,omitempty"`
	Exclude ExcludeConfig `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	Store   StoreConfig   `json:"store,omitempty" yaml:"store,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// OutputConfig selects where rendered lines go.
type OutputConfig struct {
	// Target is one of "stderr", "stdout", "file" or "loki". Empty means
	// stderr. The "loki" target also keeps writing to stderr.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	// Path is the log file path when Target is "file".
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// URL is the Loki push endpoint when Target is "loki"
	// (e.g. "http://localhost:3100/loki/api/v1/push").
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
	// Labels are extra Loki stream labels.
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// ExcludeConfig suppresses logging for matching requests. The wrapped
// handler still runs; only the line is dropped.
type ExcludeConfig struct {
	// Paths are exact request paths to skip.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`
	// Patterns are regular expressions matched against the request path.
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	// Condition is an expression evaluated after the response, with
	// method, path, query, status, bytes, remote_addr and duration_ms
	// in scope. A true result drops the line.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// LoggingConfig controls the slog output used by the default sink.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error". Empty means info.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is "text" or "json". Empty means text.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// StoreConfig enables the in-memory request store.
type StoreConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// MaxEntries bounds the store; zero means DefaultStoreEntries.
	MaxEntries int `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
}

// MetricsConfig enables request counters and duration histograms.
type MetricsConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// DefaultStoreEntries is the store capacity used when MaxEntries is zero.
const DefaultStoreEntries = 1000

// Default returns a Config with the default format logging to stderr.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Target: "stderr"},
	}
}
