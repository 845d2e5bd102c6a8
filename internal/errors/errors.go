// Package errors provides standardized error types for the certgate tool.
//
// The errors package defines domain-specific error types that enable
// structured error handling and consistent error messages throughout
// the application.
//
// # Error Types
//
// GateError is the primary error type, containing:
//   - Code: Categorizes the error (CONFIG, REMOTE, PARSE, etc.)
//   - Message: Human-readable error description
//   - Target: The rule label, host, or file involved (if applicable)
//   - Err: The underlying wrapped error (if any)
//
// # Sentinel Errors
//
// Common error scenarios have pre-defined sentinel errors:
//
//	errors.ErrRuleNotFound         // forward rule missing or ambiguous
//	errors.ErrWriteFailed          // staged config write failed
//	errors.ErrHostUnreachable      // remote host could not be dialed
//	errors.ErrAuthRejected         // remote authentication failed
//	errors.ErrRemoteCommandFailed  // remote command exited nonzero
//	errors.ErrExpiryNotFound       // no expiry date in status report
//	errors.ErrRootRequired         // root privileges required
//	errors.ErrLockHeld             // another run holds the lock
//
// # Usage
//
// Creating domain-specific errors:
//
//	// Forward rule not found or ambiguous
//	return errors.RuleNotFound("letsencrypt-http")
//
//	// Wrapping an underlying error
//	return errors.Wrap(errors.ErrCodeConfig, "failed to stage config", err)
//
// # Error Checking
//
// Use errors.Is for sentinel error comparison:
//
//	if errors.Is(err, errors.ErrRuleNotFound) {
//	    // Handle missing rule case
//	}
//
// Use errors.As for type assertion:
//
//	var gateErr *errors.GateError
//	if errors.As(err, &gateErr) {
//	    fmt.Printf("Error code: %s, Target: %s\n", gateErr.Code, gateErr.Target)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeArgument  ErrorCode = "ARGUMENT"  // Command-line argument error
	ErrCodePrivilege ErrorCode = "PRIVILEGE" // Insufficient local privileges
	ErrCodeConfig    ErrorCode = "CONFIG"    // Gateway configuration error
	ErrCodeRemote    ErrorCode = "REMOTE"    // Remote channel error
	ErrCodeParse     ErrorCode = "PARSE"     // Status report parse error
	ErrCodeLock      ErrorCode = "LOCK"      // Run lock error
	ErrCodeInternal  ErrorCode = "INTERNAL"  // Internal/unexpected error
)

// GateError represents a structured error with context about the operation.
type GateError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Target  string    // Rule label, host, or file path (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *GateError) Error() string {
	if e.Target != "" && e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Target, e.Err)
	}
	if e.Target != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Target)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *GateError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Sentinels carry both a code and a message; both must match so that
// two sentinels sharing a category stay distinguishable.
func (e *GateError) Is(target error) bool {
	t, ok := target.(*GateError)
	if !ok {
		return false
	}
	if t.Message != "" && t.Message != e.Message {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrRuleNotFound indicates the forward rule label matched zero or
	// multiple eligible records.
	ErrRuleNotFound = &GateError{Code: ErrCodeConfig, Message: "forward rule not found"}

	// ErrWriteFailed indicates a staged config edit could not be committed.
	ErrWriteFailed = &GateError{Code: ErrCodeConfig, Message: "config write failed"}

	// ErrHostUnreachable indicates the remote host could not be dialed.
	ErrHostUnreachable = &GateError{Code: ErrCodeRemote, Message: "host unreachable"}

	// ErrAuthRejected indicates the remote side rejected authentication.
	ErrAuthRejected = &GateError{Code: ErrCodeRemote, Message: "authentication rejected"}

	// ErrRemoteCommandFailed indicates the remote command exited nonzero.
	ErrRemoteCommandFailed = &GateError{Code: ErrCodeRemote, Message: "remote command failed"}

	// ErrExpiryNotFound indicates the status report carried no expiry date.
	ErrExpiryNotFound = &GateError{Code: ErrCodeParse, Message: "expiry date not found"}

	// ErrRootRequired indicates root privileges are required.
	ErrRootRequired = &GateError{Code: ErrCodePrivilege, Message: "root privileges required"}

	// ErrLockHeld indicates another invocation holds the run lock.
	ErrLockHeld = &GateError{Code: ErrCodeLock, Message: "run lock already held"}
)

// RuleNotFound creates an error for a forward rule that matched zero or
// multiple eligible records.
func RuleNotFound(label string) error {
	return &GateError{
		Code:    ErrCodeConfig,
		Message: "forward rule not found",
		Target:  label,
	}
}

// WriteFailed creates an error for a config file that could not be
// durably written.
func WriteFailed(path string, err error) error {
	return &GateError{
		Code:    ErrCodeConfig,
		Message: "config write failed",
		Target:  path,
		Err:     err,
	}
}

// Unreachable creates an error for a host that could not be dialed.
func Unreachable(host string, err error) error {
	return &GateError{
		Code:    ErrCodeRemote,
		Message: "host unreachable",
		Target:  host,
		Err:     err,
	}
}

// AuthRejected creates an error for a rejected remote authentication.
func AuthRejected(host string, err error) error {
	return &GateError{
		Code:    ErrCodeRemote,
		Message: "authentication rejected",
		Target:  host,
		Err:     err,
	}
}

// RemoteFailed creates an error for a remote command that exited nonzero.
func RemoteFailed(action string, err error) error {
	return &GateError{
		Code:    ErrCodeRemote,
		Message: "remote command failed",
		Target:  action,
		Err:     err,
	}
}

// ExpiryNotFound creates an error for a status report with no usable
// expiry date.
func ExpiryNotFound() error {
	return &GateError{
		Code:    ErrCodeParse,
		Message: "expiry date not found",
	}
}

// Argument creates an argument validation error with a custom message.
func Argument(msg string) error {
	return &GateError{
		Code:    ErrCodeArgument,
		Message: msg,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &GateError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapTarget creates an error with target context and underlying error.
func WrapTarget(code ErrorCode, msg, target string, err error) error {
	return &GateError{
		Code:    code,
		Message: msg,
		Target:  target,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
