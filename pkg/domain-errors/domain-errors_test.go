package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessageFallsBackToCode(t *testing.T) {
	err := New(CodeRateLimited, "")
	assert.Equal(t, "rate_limited", err.Error())

	err = New(CodeRateLimited, "too many submissions")
	assert.Equal(t, "too many submissions", err.Error())
}

func TestWrapPreservesOriginalCode(t *testing.T) {
	inner := New(CodeNotFound, "form missing")
	wrapped := Wrap(inner, CodeInternal, "lookup failed")

	assert.True(t, HasCode(wrapped, CodeNotFound), "wrapping must not change the original code")
	assert.True(t, errors.Is(wrapped, inner.(*Error)))
}

func TestWrapAssignsCodeToPlainErrors(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("connection refused"), CodeInternal, "store unavailable")
	assert.True(t, HasCode(wrapped, CodeInternal))
	assert.Equal(t, "store unavailable", wrapped.Error())
}

func TestNewValidationCarriesFieldMap(t *testing.T) {
	fields := map[string]string{"email": "Enter a valid email address"}
	err := NewValidation(fields)

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, fields, de.Fields)

	// The field map must survive wrapping on the way out of a service layer.
	wrapped := Wrap(err, CodeInternal, "submission rejected")
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, fields, de.Fields)
}
