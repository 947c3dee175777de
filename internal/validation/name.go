package validation

import (
	"strings"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
)

// validateName treats the value as a part map keyed by the configured parts.
// A part is required if the field itself is required or partsRequired flags
// it; the first missing required part supplies the error and evaluation
// stops. No further checks apply to name fields.
func validateName(field *form.Field, raw any) (any, string) {
	opts := field.NameOptions()
	parts := opts.EffectiveParts()

	values := namePartValues(raw)
	normalized := make(map[string]string, len(parts))

	for _, part := range parts {
		value := strings.TrimSpace(values[string(part)])
		required := field.Required || (opts != nil && opts.PartsRequired[part])
		if required && value == "" {
			return nil, opts.PartLabel(part) + " is required."
		}
		if value != "" {
			normalized[string(part)] = value
		}
	}

	if len(normalized) == 0 && !field.Required {
		return nil, ""
	}
	return normalized, ""
}

// namePartValues coerces the raw payload value into a part→string map.
// JSON object decoding produces map[string]any; collectors that pre-shape
// the map are accepted too. Anything else reads as empty.
func namePartValues(raw any) map[string]string {
	switch v := raw.(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for key, val := range v {
			if s, ok := val.(string); ok {
				out[key] = s
			}
		}
		return out
	default:
		return map[string]string{}
	}
}
