package orchestrator

import "time"

// Cause classifies how the run terminated.
type Cause int

const (
	// CauseNormal means the run completed its protocol, whether renewal
	// was attempted or correctly skipped.
	CauseNormal Cause = iota
	// CauseRemoteFailure means a remote invocation failed.
	CauseRemoteFailure
	// CauseSignal means an interrupt/terminate/hangup cut the run short.
	CauseSignal
	// CauseConfigError means a gateway control could not be toggled or
	// committed.
	CauseConfigError
	// CauseParseFailure means the status report carried no usable expiry.
	CauseParseFailure
)

// String returns the string representation of the cause.
func (c Cause) String() string {
	switch c {
	case CauseNormal:
		return "normal"
	case CauseRemoteFailure:
		return "remote-failure"
	case CauseSignal:
		return "signal"
	case CauseConfigError:
		return "config-error"
	case CauseParseFailure:
		return "parse-failure"
	default:
		return "unknown"
	}
}

// MarshalText lets the cause render as its name in JSON output.
func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Outcome is the per-run result, used for logging and the exit code.
// Cleanup never mutates the renewal fields; it only sets CloseFailed.
type Outcome struct {
	Decision         string    `json:"decision,omitempty"`
	Expiry           time.Time `json:"expiry,omitempty"`
	DaysRemaining    int       `json:"days_remaining"`
	RenewalAttempted bool      `json:"renewal_attempted"`
	RenewalSucceeded bool      `json:"renewal_succeeded"`
	Cause            Cause     `json:"cause"`
	OpenFailed       bool      `json:"open_failed"`
	CloseFailed      bool      `json:"close_failed"`
	Error            string    `json:"error,omitempty"`

	// Err is the first error that marked the run failed.
	Err error `json:"-"`
}

// setErr records the first failure; later errors are logged but do not
// overwrite the cause of record.
func (o *Outcome) setErr(cause Cause, err error) {
	if o.Err == nil {
		o.Cause = cause
		o.Err = err
		if err != nil {
			o.Error = err.Error()
		}
	}
}

// ExitCode maps the outcome to the process exit code. The window
// protocol completing is what earns exit 0: a failed renewal attempt
// inside a correctly opened and closed window is still 0, while any
// failure to check, open, or restore is 1.
func (o *Outcome) ExitCode() int {
	if o.OpenFailed || o.CloseFailed {
		return 1
	}
	switch o.Cause {
	case CauseNormal:
		return 0
	case CauseRemoteFailure:
		if o.RenewalAttempted {
			return 0
		}
		return 1
	default:
		return 1
	}
}
