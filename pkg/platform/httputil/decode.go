package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/domain-errors"
)

// DecodeJSON decodes a JSON request body into the target type.
// Returns the decoded value and true on success.
// On failure, writes an error response and returns nil, false. A body that
// tripped a MaxBytesReader cap maps to 413 rather than a generic 400.
//
// Usage:
//
//	req, ok := httputil.DecodeJSON[handler.SubmitRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//	    return
//	}
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, dErrors.New(dErrors.CodePayloadTooLarge, "Request body too large"))
			return nil, false
		}
		WriteError(w, dErrors.New(dErrors.CodeMalformedPayload, "Invalid request body"))
		return nil, false
	}
	return &req, true
}
