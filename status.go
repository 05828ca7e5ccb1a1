package initwait

import "time"

// InitiateStatus is the provisioning state reported by the remote service
// in the InitiateStatus field of its JSON response.
//
// Matching is exact and case-sensitive. Values other than the four
// predefined constants are still carried through so they can be logged,
// but they are treated as failures by [Classify].
type InitiateStatus string

const (
	// StatusFail means the remote provisioning process failed.
	StatusFail InitiateStatus = "Fail"

	// StatusInProgress means provisioning is still running.
	StatusInProgress InitiateStatus = "InProgress"

	// StatusNotTriggered means no change needed to be applied.
	StatusNotTriggered InitiateStatus = "NotTriggered"

	// StatusSuccess means provisioning completed.
	StatusSuccess InitiateStatus = "Success"
)

// String returns the string representation of the status.
func (s InitiateStatus) String() string {
	return string(s)
}

// Action is what the poll loop does after classifying an [Outcome].
type Action int

const (
	// ContinuePolling waits for the poll interval and polls again.
	ContinuePolling Action = iota

	// ExitSuccess ends polling; the process should exit with code 0.
	ExitSuccess

	// ExitFailure ends polling; the process should exit with code 1.
	ExitFailure
)

// String returns a lowercase name for the action, suitable for logging.
func (a Action) String() string {
	switch a {
	case ContinuePolling:
		return "continue"
	case ExitSuccess:
		return "exit_success"
	case ExitFailure:
		return "exit_failure"
	default:
		return "unknown"
	}
}

// Terminal reports whether the action ends the poll loop.
func (a Action) Terminal() bool {
	return a == ExitSuccess || a == ExitFailure
}

// ExitCode returns the process exit code for a terminal action.
// Non-terminal actions have no exit code and return -1.
func (a Action) ExitCode() int {
	switch a {
	case ExitSuccess:
		return 0
	case ExitFailure:
		return 1
	default:
		return -1
	}
}

// Reasons attached to a [Decision]. They are stable strings intended for
// log fields and assertions, not for display.
const (
	ReasonTransportError      = "transport_error"
	ReasonServerUnavailable   = "server_unavailable"
	ReasonUnhandledStatusCode = "unhandled_status_code"
	ReasonMalformedResponse   = "malformed_response"
	ReasonFailed              = "failed"
	ReasonInProgress          = "in_progress"
	ReasonNotTriggered        = "not_triggered"
	ReasonSucceeded           = "succeeded"
	ReasonUnknownStatus       = "unknown_status"
)

// Outcome holds the result of a single fetch of the remote URL.
//
// Outcome is produced once per loop iteration and never outlives it.
// StatusCode and Body are only meaningful when TransportSucceeded is true.
type Outcome struct {
	// TransportSucceeded is false when the request could not be completed
	// (connection refused, DNS failure, timeout, TLS error, body read error).
	TransportSucceeded bool

	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Body is the full raw response body. A body over 1MB is reported
	// through Err instead.
	Body []byte

	// Err is the transport error when TransportSucceeded is false.
	Err error

	// Latency is the total time taken for the request.
	Latency time.Duration
}

// Decision is the classification of a single [Outcome].
type Decision struct {
	// Action is what the loop does next.
	Action Action

	// Reason is one of the Reason* constants.
	Reason string

	// Status is the InitiateStatus parsed from the body. Empty unless the
	// response was in the success/redirect range and decoded cleanly.
	Status InitiateStatus

	// Err describes why the body could not be decoded, for
	// [ReasonMalformedResponse] decisions.
	Err error
}

// Result is returned by [Poller.Run] when polling stops.
type Result struct {
	// Action is the final action. It is terminal unless Run was cancelled.
	Action Action

	// Decision is the classification that ended polling.
	Decision Decision

	// Attempts is the number of fetches performed.
	Attempts int

	// Elapsed is the wall time spent in Run.
	Elapsed time.Duration
}
