// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeCommandFailed,
//	    "failed to collect CPU information",
//	    runErr,
//	    map[string]any{
//	        "command":  "lscpu",
//	        "exitCode": 1,
//	    },
//	)
package errors
