package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// ErrorResponse is the wire shape of every rejection. Fields is present only
// for validation failures, carrying one message per invalid field.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteError centralizes domain error translation to HTTP responses.
// Validation errors carry the per-field message map; every other rejection
// is a single whole-request message. Unexpected errors collapse to a
// generic 500 so internals never leak to the public endpoint.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		resp := ErrorResponse{Error: domainErr.Message}
		if domainErr.Code == dErrors.CodeValidation {
			resp.Fields = domainErr.Fields
		}
		if domainErr.Code == dErrors.CodeInternal {
			resp.Error = "Internal server error"
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), resp)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeOriginRejected, dErrors.CodeSubmissionClosed:
		return http.StatusForbidden
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case dErrors.CodeMalformedPayload, dErrors.CodeValidation, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
