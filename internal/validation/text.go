package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
)

// Per-type length defaults applied when the form owner configures no
// maxLength, and absolute ceilings that configured values can tighten toward
// but never loosen past.
var (
	defaultMaxLengths = map[form.FieldType]int{
		form.FieldTypeText:     200,
		form.FieldTypeEmail:    254,
		form.FieldTypeTextarea: 2000,
		form.FieldTypeHidden:   200,
	}
	ceilingMaxLengths = map[form.FieldType]int{
		form.FieldTypeText:     500,
		form.FieldTypeEmail:    320,
		form.FieldTypeTextarea: 10000,
		form.FieldTypeHidden:   500,
	}
)

var textFormatPatterns = map[form.TextFormat]*regexp.Regexp{
	form.TextFormatNumbers:  regexp.MustCompile(`^[0-9]+$`),
	form.TextFormatLetters:  regexp.MustCompile(`^[A-Za-z\s]+$`),
	form.TextFormatPostalUS: regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`),
	form.TextFormatPostalCA: regexp.MustCompile(`^[A-Za-z][0-9][A-Za-z][ -]?[0-9][A-Za-z][0-9]$`),
}

var textFormatMessages = map[form.TextFormat]string{
	form.TextFormatNumbers:  " must contain only numbers.",
	form.TextFormatLetters:  " must contain only letters.",
	form.TextFormatURL:      " must be a valid URL.",
	form.TextFormatPostalUS: " must be a valid US ZIP code.",
	form.TextFormatPostalCA: " must be a valid Canadian postal code.",
}

// validateText is the generic length and format pass for text, textarea,
// hidden, and anything else that reaches it.
func validateText(field *form.Field, value string) (any, string) {
	rules := field.TextValidation()
	if msg := checkLength(field, value, rules); msg != "" {
		return nil, msg
	}
	if rules != nil {
		if msg := checkTextFormat(field, value, rules); msg != "" {
			return nil, msg
		}
		if msg := checkCustomPattern(field, value, rules); msg != "" {
			return nil, msg
		}
	}
	return value, ""
}

// checkCustomPattern applies an owner-supplied regular expression. A pattern
// that does not compile is silently skipped: a form owner's configuration
// mistake must never block every legitimate submission.
func checkCustomPattern(field *form.Field, value string, rules *form.TextValidation) string {
	if rules.Pattern == "" {
		return ""
	}
	pattern, err := regexp.Compile(rules.Pattern)
	if err != nil {
		return ""
	}
	if !pattern.MatchString(value) {
		if rules.Message != "" {
			return rules.Message
		}
		return field.DisplayLabel() + " is not in the expected format."
	}
	return ""
}

// checkLength applies minLength first, then the effective max length:
// min(configured ?? type default, type ceiling). Configured values can only
// tighten, never loosen past the ceiling. Lengths count runes, not bytes, so
// the engine agrees with the characters a browser maxlength attribute counts.
func checkLength(field *form.Field, value string, rules *form.TextValidation) string {
	length := utf8.RuneCountInString(value)
	if rules != nil && rules.MinLength > 0 && length < rules.MinLength {
		return fmt.Sprintf("%s must be at least %d characters.", field.DisplayLabel(), rules.MinLength)
	}
	if max := EffectiveMaxLength(field); max > 0 && length > max {
		return fmt.Sprintf("%s must be at most %d characters.", field.DisplayLabel(), max)
	}
	return ""
}

// EffectiveMaxLength resolves the enforced maximum length for a field.
// Exported so the widget's compiled client rules carry the same limit the
// engine enforces. Returns 0 for types without a length ceiling.
func EffectiveMaxLength(field *form.Field) int {
	ceiling, ok := ceilingMaxLengths[field.Type]
	if !ok {
		return 0
	}
	max := defaultMaxLengths[field.Type]
	if rules := field.TextValidation(); rules != nil && rules.MaxLength > 0 {
		max = rules.MaxLength
	}
	if max > ceiling {
		return ceiling
	}
	return max
}

// checkTextFormat applies the optional extra format check. "alphanumeric" is
// the explicit no-op default and never acts as a constraint.
func checkTextFormat(field *form.Field, value string, rules *form.TextValidation) string {
	fail := func(suffix string) string {
		if rules.Message != "" {
			return rules.Message
		}
		return field.DisplayLabel() + suffix
	}

	switch rules.Format {
	case "", form.TextFormatAlphanumeric:
		return ""
	case form.TextFormatURL:
		if !isValidURL(value) {
			return fail(textFormatMessages[form.TextFormatURL])
		}
		return ""
	default:
		pattern, ok := textFormatPatterns[rules.Format]
		if !ok {
			// Unknown format names behave like an invalid custom pattern.
			return ""
		}
		if !pattern.MatchString(value) {
			return fail(textFormatMessages[rules.Format])
		}
		return ""
	}
}

func isValidURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
