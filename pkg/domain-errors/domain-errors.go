package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in submission-processing terms, not HTTP terms.
type Code string

const (
	CodeNotFound         Code = "not_found"          // form or site does not exist
	CodeOriginRejected   Code = "origin_rejected"    // request origin not allowed for the form
	CodeRateLimited      Code = "rate_limited"       // identity exceeded the request window
	CodeSubmissionClosed Code = "submission_closed"  // stopAt passed or maxSubmissions reached
	CodePayloadTooLarge  Code = "payload_too_large"  // body exceeded the size cap
	CodeMalformedPayload Code = "malformed_payload"  // body is not valid JSON
	CodeValidation       Code = "validation_failed"  // one or more fields failed validation
	CodeBadRequest       Code = "bad_request"        // malformed identifier or parameter
	CodeInternal         Code = "internal_error"     // unexpected failure, logged, generic to caller
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error

	// Fields carries per-field validation messages. It is populated only for
	// CodeValidation; every other rejection is a single whole-request error.
	Fields map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// NewValidation creates a validation error carrying the per-field message map.
func NewValidation(fields map[string]string) error {
	return &Error{Code: CodeValidation, Message: "Validation failed", Fields: fields}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err, Fields: existing.Fields}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
