// Package errors provides error handling conventions for the zonebak CLI.
//
// This package defines sentinel errors for the failure classes the backup
// pipeline distinguishes, an ExitError type for CLI exit code handling, and
// exit code constants following standard Unix conventions.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, zbkerrors.ErrCollection) {
//	    // zone enumeration or query failed; nothing was written
//	}
//
// Errors produced deeper in the pipeline are associated with a sentinel via
// [Mark], so classification survives arbitrary wrapping.
//
// # Exit Codes
//
// The package defines standard exit codes for the CLI:
//
//   - ExitSuccess (0): Run completed, including the "no changes" skip
//   - ExitUser (1): User-related error (configuration, flags)
//   - ExitSystem (2): System-related error (collection, build, I/O)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports error unwrapping via [errors.Unwrap] and
// [errors.As]:
//
//	var exitErr *zbkerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
