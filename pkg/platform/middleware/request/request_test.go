package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/requestcontext"
)

func serveWithRequestID(t *testing.T, headerID string) (string, string) {
	t.Helper()
	var ctxID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestcontext.RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/forms/abc/submissions", nil)
	if headerID != "" {
		req.Header.Set("X-Request-ID", headerID)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return ctxID, w.Header().Get("X-Request-ID")
}

func TestRequestID(t *testing.T) {
	t.Run("generates a UUID when no header is provided", func(t *testing.T) {
		ctxID, headerID := serveWithRequestID(t, "")
		assert.Len(t, ctxID, 36)
		assert.Equal(t, ctxID, headerID)
	})

	t.Run("echoes a valid client-provided ID", func(t *testing.T) {
		for _, id := range []string{
			"my-request-123",
			"trace.span_1234",
			strings.Repeat("a", MaxRequestIDLength),
		} {
			ctxID, headerID := serveWithRequestID(t, id)
			assert.Equal(t, id, ctxID)
			assert.Equal(t, id, headerID)
		}
	})

	t.Run("replaces an invalid client ID with a fresh UUID", func(t *testing.T) {
		for name, id := range map[string]string{
			"too long":  strings.Repeat("a", MaxRequestIDLength+1),
			"newline":   "valid\ninjected-log-line",
			"space":     "request id",
			"quote":     `request"id`,
			"brackets":  "request<id>",
			"semicolon": "request;id",
			"null byte": "request\x00id",
		} {
			_, headerID := serveWithRequestID(t, id)
			assert.NotEqual(t, id, headerID, "must reject %s", name)
			assert.Len(t, headerID, 36)
		}
	})
}

func TestIsValidRequestID(t *testing.T) {
	valid := []string{
		"abc123",
		"ABC-123",
		"request_id_456",
		"trace.span.123",
		"a",
		strings.Repeat("x", MaxRequestIDLength),
	}
	for _, id := range valid {
		assert.True(t, isValidRequestID(id), "expected %q to be valid", id)
	}

	invalid := []string{
		"",
		strings.Repeat("x", MaxRequestIDLength+1),
		"has space",
		"has\nnewline",
		"has\ttab",
		"has;semicolon",
		"has<bracket>",
		`has"quote`,
	}
	for _, id := range invalid {
		assert.False(t, isValidRequestID(id), "expected %q to be invalid", id)
	}
}

func TestRequestIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	assert.Equal(t, "", requestcontext.RequestID(req.Context()))
}
