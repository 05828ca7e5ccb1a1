package initwait

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse is wrapped by [Decision.Err] when a success or
// redirect response body does not carry a string InitiateStatus field.
var ErrMalformedResponse = errors.New("malformed response")

// initiateStatusField is the JSON key the remote service reports its state in.
const initiateStatusField = "InitiateStatus"

// Classify maps a fetch [Outcome] to a [Decision].
//
// Classify is a pure function. Rules are evaluated in this order:
//
//  1. Transport failure: [ContinuePolling].
//  2. Status 200-399: the body is decoded and InitiateStatus is matched
//     exactly. Fail and unknown values give [ExitFailure], InProgress gives
//     [ContinuePolling], NotTriggered and Success give [ExitSuccess].
//     A body that is not a JSON object, or lacks a string InitiateStatus,
//     gives [ExitFailure] with [ReasonMalformedResponse].
//  3. Status 400-599: [ContinuePolling], regardless of body.
//  4. Any other status code: [ContinuePolling] with
//     [ReasonUnhandledStatusCode].
func Classify(o Outcome) Decision {
	if !o.TransportSucceeded {
		return Decision{Action: ContinuePolling, Reason: ReasonTransportError}
	}

	switch {
	case o.StatusCode >= 200 && o.StatusCode <= 399:
		status, err := DecodeInitiateStatus(o.Body)
		if err != nil {
			return Decision{Action: ExitFailure, Reason: ReasonMalformedResponse, Err: err}
		}
		return classifyStatus(status)
	case o.StatusCode >= 400 && o.StatusCode <= 599:
		return Decision{Action: ContinuePolling, Reason: ReasonServerUnavailable}
	default:
		return Decision{Action: ContinuePolling, Reason: ReasonUnhandledStatusCode}
	}
}

// classifyStatus maps a decoded InitiateStatus to a decision.
// Unknown values fail closed.
func classifyStatus(status InitiateStatus) Decision {
	d := Decision{Status: status}
	switch status {
	case StatusFail:
		d.Action, d.Reason = ExitFailure, ReasonFailed
	case StatusInProgress:
		d.Action, d.Reason = ContinuePolling, ReasonInProgress
	case StatusNotTriggered:
		d.Action, d.Reason = ExitSuccess, ReasonNotTriggered
	case StatusSuccess:
		d.Action, d.Reason = ExitSuccess, ReasonSucceeded
	default:
		d.Action, d.Reason = ExitFailure, ReasonUnknownStatus
	}
	return d
}

// DecodeInitiateStatus extracts the InitiateStatus string field from a JSON
// object body.
//
// The returned error wraps [ErrMalformedResponse] when the body is not a JSON
// object, the field is missing, or the field is not a string. Other fields
// are ignored.
func DecodeInitiateStatus(body []byte) (InitiateStatus, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", fmt.Errorf("%w: body is not a JSON object: %v", ErrMalformedResponse, err)
	}
	// a literal null decodes into a nil map without error
	if obj == nil {
		return "", fmt.Errorf("%w: body is not a JSON object", ErrMalformedResponse)
	}

	raw, ok := obj[initiateStatusField]
	if !ok {
		return "", fmt.Errorf("%w: missing %s field", ErrMalformedResponse, initiateStatusField)
	}

	// null would otherwise decode into an empty string without error
	var s string
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) || json.Unmarshal(raw, &s) != nil {
		return "", fmt.Errorf("%w: %s is not a string", ErrMalformedResponse, initiateStatusField)
	}
	return InitiateStatus(s), nil
}
