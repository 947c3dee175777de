package widget

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
	formstore "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/store"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/sentinel"
	dErrors "github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/domain-errors"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/platform/httputil"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/requestcontext"
)

// Handler serves the rendered widget and its client-rules document. Both are
// fetched cross-origin by embed scripts, so responses allow any origin; the
// submission endpoint applies the form's own origin policy instead.
type Handler struct {
	logger   *slog.Logger
	forms    formstore.Store
	renderer *Renderer
}

// NewHandler creates a widget Handler.
func NewHandler(forms formstore.Store, renderer *Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		forms:    forms,
		renderer: renderer,
	}
}

// Register registers the widget routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/forms/{formID}/widget", h.handleWidget)
	r.Get("/v1/forms/{formID}/schema", h.handleSchema)
}

func (h *Handler) handleWidget(w http.ResponseWriter, r *http.Request) {
	form, ok := h.loadForm(w, r)
	if !ok {
		return
	}

	action := "/v1/forms/" + form.ID.String() + "/submissions"
	markup, err := h.renderer.Render(form, action)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "widget render failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"form_id", form.ID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "render widget"))
		return
	}

	allowEmbedding(w)
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(markup)
}

func (h *Handler) handleSchema(w http.ResponseWriter, r *http.Request) {
	form, ok := h.loadForm(w, r)
	if !ok {
		return
	}

	allowEmbedding(w)
	httputil.WriteJSON(w, http.StatusOK, CompileRules(form))
}

func (h *Handler) loadForm(w http.ResponseWriter, r *http.Request) (*form.Form, bool) {
	formID, err := uuid.Parse(chi.URLParam(r, "formID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Form not found"))
		return nil, false
	}

	form, err := h.forms.GetFormWithFields(r.Context(), formID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Form not found"))
			return nil, false
		}
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load form"))
		return nil, false
	}
	return form, true
}

func allowEmbedding(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "public, max-age=60")
}
