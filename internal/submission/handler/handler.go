// Package handler exposes the public submission endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/models"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/service"
	dErrors "github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/domain-errors"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/platform/httputil"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/requestcontext"
)

// Service defines the submission pipeline entrypoint.
type Service interface {
	Submit(ctx context.Context, req service.Request) (*models.Submission, error)
}

// Handler handles the public submission endpoint.
type Handler struct {
	logger      *slog.Logger
	submissions Service
}

// New creates a new submission Handler.
func New(submissions Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		submissions: submissions,
	}
}

// Register registers the submission routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/forms/{formID}/submissions", h.handleSubmit)
}

// SubmitResponse is the success payload. Spam submissions get the same
// response as clean ones.
type SubmitResponse struct {
	Success bool      `json:"success"`
	ID      uuid.UUID `json:"id"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	formID, err := uuid.Parse(chi.URLParam(r, "formID"))
	if err != nil {
		// A malformed ID is indistinguishable from a missing form to callers.
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Form not found"))
		return
	}

	payload, ok := httputil.DecodeJSON[map[string]any](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sub, err := h.submissions.Submit(ctx, service.Request{
		FormID:  formID,
		Payload: *payload,
		Origin:  r.Header.Get("Origin"),
		Referer: r.Header.Get("Referer"),
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "submission failed",
				"request_id", requestID,
				"form_id", formID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, SubmitResponse{Success: true, ID: sub.ID})
}
