// Package types holds the JSON envelopes every HTTP response is wrapped in.
package types

// SuccessEnvelope wraps successful payloads, so a group snapshot arrives as
// {"data": {...}} whether it came from a REST read or an edit that returned
// the updated order.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a coded error. Code carries the machine
// constant (VALIDATION_ERROR, NOT_FOUND, STATE_CONFLICT, ...), Message the
// human text, and Details optional structure such as per-field validation
// failures.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError under an "error" key, mirroring how
// SuccessEnvelope nests under "data".
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
