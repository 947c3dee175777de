// Package validation implements the schema-driven field validation engine.
// It is the single source of truth for what the service accepts: the HTTP
// submission path and the embeddable widget's compiled client rules both
// derive from it, and the server-side verdict is always authoritative.
package validation

import (
	"strings"
	"time"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
)

// Payload is the raw, untrusted submission body: field name to value. Values
// are strings, booleans, or part maps for composite name fields.
type Payload map[string]any

// Result maps field names to a single human-readable error message. A field
// absent from the map is valid. Built fresh per call, never merged.
type Result map[string]string

// Normalized holds the values to persist once every field validated: strings
// trimmed, strict phone numbers in +1XXXXXXXXXX form, emails lower-cased when
// the field opts in, checkboxes coerced to bool.
type Normalized map[string]any

// Engine validates payloads against field definitions. It holds no per-request
// state; the clock is injectable so date rules ("today", noFuture, noPast)
// stay testable.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used to resolve date constraints.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a validation engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks every field independently and returns the error map plus
// the normalized values. Normalization only happens when the whole payload is
// valid, so error messages always reflect the caller's original input; on any
// failure the normalized map is nil.
func (e *Engine) Validate(fields []form.Field, payload Payload) (Result, Normalized) {
	result := make(Result)
	normalized := make(Normalized, len(fields))

	for i := range fields {
		field := &fields[i]
		value, msg := e.validateField(field, payload[field.Name])
		if msg != "" {
			result[field.Name] = msg
			continue
		}
		if value != nil {
			normalized[field.Name] = value
		}
	}

	if len(result) > 0 {
		return result, nil
	}
	return result, normalized
}

// validateField runs the per-type pipeline for one field. It returns the
// value to persist and the first failing rule's message; a field accumulates
// at most one error.
func (e *Engine) validateField(field *form.Field, raw any) (any, string) {
	switch field.Type {
	case form.FieldTypeCheckbox:
		return validateCheckbox(field, raw)
	case form.FieldTypeName:
		// Required is evaluated per part; the empty-and-optional shortcut
		// never applies to composite names.
		return validateName(field, raw)
	}

	value, _ := stringValue(raw)
	value = strings.TrimSpace(value)

	if value == "" {
		if field.Required {
			return nil, field.DisplayLabel() + " is required."
		}
		// Empty and optional: skip every remaining check.
		return nil, ""
	}

	switch field.Type {
	case form.FieldTypeEmail:
		return e.validateEmail(field, value)
	case form.FieldTypePhone:
		// Generic length/format checks never apply to phone fields.
		return validatePhone(field, value)
	case form.FieldTypeDate:
		return e.validateDate(field, value)
	case form.FieldTypeSelect:
		return validateSelect(field, value)
	default:
		return validateText(field, value)
	}
}

// stringValue coerces a payload value to a string. Non-string scalars are
// rejected rather than stringified so a JSON number never slips past a
// format check.
func stringValue(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

// validateCheckbox treats any falsy value as unchecked. HTML form encodings
// of "checked" ("true", "on", "1") are accepted alongside JSON booleans.
func validateCheckbox(field *form.Field, raw any) (any, string) {
	checked := false
	switch v := raw.(type) {
	case bool:
		checked = v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			checked = true
		}
	}
	if field.Required && !checked {
		return nil, field.DisplayLabel() + " is required."
	}
	return checked, ""
}

// validateSelect requires the value to be one of the configured option
// values. The "other" free-text companion is substituted by the client
// collector before submission, so the engine only ever sees plain strings.
func validateSelect(field *form.Field, value string) (any, string) {
	opts := field.SelectOptions()
	if opts == nil || len(opts.Options) == 0 {
		return value, ""
	}
	if opts.AllowOther {
		return value, ""
	}
	for _, opt := range opts.Options {
		if value == opt.Value {
			return value, ""
		}
	}
	return nil, field.DisplayLabel() + " must be a valid option."
}
