// Package logging provides structured logging for litesql.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the tool.
//
// # Features
//
//   - JSON output for machine consumption, text for terminals
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig section:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("opening database", "path", cfg.Database.Path)
package logging
