// Package config loads access-log configuration from JSON or YAML files
// and builds ready-to-use middleware instances from it.
//
// A configuration file declares the format string, path exclusions, the
// output target and optional request-store and metrics settings:
//
//	format: '%a "%r" %s %b %T'
//	output:
//	  target: stderr
//	exclude:
//	  paths: [/healthz]
//	  patterns: ['^/static/']
//	store:
//	  enabled: true
//	  max_entries: 500
//
// Load the file with LoadFromFile, then call Build to obtain an
// accesslog.Logger. Custom tags and span factories cannot be expressed in a
// file; pass them as extra options to Build.
package config
