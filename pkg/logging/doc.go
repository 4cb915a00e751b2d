// Package logging provides structured logging utilities for hostdiag.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every component logs the same way. Logs are the diagnostic stream of the
// tool: collection progress goes to stdout, everything else (failed commands,
// unreadable log files, missing systemd) is written here, to stderr.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("hostdiag", version)
//	    slog.Info("collecting", "dir", dir)
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("hostdiag", "v1.0.0", "warn")
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "ERROR",
//	    "msg": "command failed",
//	    "module": "hostdiag",
//	    "version": "v1.0.0",
//	    "command": "lscpu"
//	}
package logging
