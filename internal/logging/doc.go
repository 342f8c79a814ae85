// Package logging configures structured logging for croprec.
//
// It wraps log/slog with the service defaults: JSON records on stderr,
// module and version attributes on every record, and source locations
// when running at debug level.
//
// The level comes from the LOG_LEVEL environment variable unless a level
// is passed explicitly (the CLI --log-level flag does this):
//
//	LOG_LEVEL=debug croprec serve
//
// Typical use in main:
//
//	logging.SetDefaultStructuredLogger("croprec", version)
//	slog.Info("training model", "dataset", path)
//
// Supported levels (case-insensitive): debug, info, warn/warning, error.
// Anything else falls back to info.
package logging
