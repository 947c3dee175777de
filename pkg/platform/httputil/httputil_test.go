package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/domain-errors"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeNotFound, http.StatusNotFound},
		{dErrors.CodeOriginRejected, http.StatusForbidden},
		{dErrors.CodeSubmissionClosed, http.StatusForbidden},
		{dErrors.CodeRateLimited, http.StatusTooManyRequests},
		{dErrors.CodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{dErrors.CodeMalformedPayload, http.StatusBadRequest},
		{dErrors.CodeValidation, http.StatusBadRequest},
		{dErrors.CodeBadRequest, http.StatusBadRequest},
		{dErrors.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, dErrors.New(tc.code, "boom"))
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestWriteErrorValidationCarriesFields(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.NewValidation(map[string]string{"email": "Enter a valid email address"}))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Equal(t, map[string]string{"email": "Enter a valid email address"}, resp.Fields)
}

func TestWriteErrorNonValidationOmitsFields(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.New(dErrors.CodeOriginRejected, "Origin not allowed"))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "fields")
	assert.Equal(t, "Origin not allowed", raw["error"])
}

func TestWriteErrorInternalNeverLeaksDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "store submission"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Error)
}

func TestWriteErrorUnknownErrorIs500(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, errors.New("anything"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
