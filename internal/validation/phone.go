package validation

import (
	"regexp"
	"strings"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
)

// lenientPhonePattern accepts digits, spaces, hyphens, parentheses, plus and
// dot. The overall length floor is checked separately.
var lenientPhonePattern = regexp.MustCompile(`^[0-9()+.\s-]+$`)

const lenientPhoneMinLength = 7

// validatePhone dispatches on the configured format; lenient is the default.
// On strict success the canonical +1XXXXXXXXXX value replaces the raw input
// in the normalized output.
func validatePhone(field *form.Field, value string) (any, string) {
	rules := field.PhoneValidation()
	if rules != nil && rules.Format == form.PhoneFormatStrict {
		canonical, ok := NormalizeUSPhone(value)
		if !ok {
			if rules.Message != "" {
				return nil, rules.Message
			}
			return nil, field.DisplayLabel() + " must be a valid US phone number (10 digits)."
		}
		return canonical, ""
	}

	if len(value) < lenientPhoneMinLength || !lenientPhonePattern.MatchString(value) {
		if rules != nil && rules.Message != "" {
			return nil, rules.Message
		}
		return nil, field.DisplayLabel() + " must be a valid phone number."
	}
	return value, ""
}

// NormalizeUSPhone reduces a US phone number to the canonical +1 form.
// A leading +1, or a bare leading 1 on an 11-digit number, is stripped; the
// remainder must be exactly 10 digits. A + prefix that is not +1 is always
// rejected. The function is idempotent: feeding it its own output yields the
// same value.
func NormalizeUSPhone(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	hasPlus := strings.HasPrefix(trimmed, "+")
	if hasPlus && !strings.HasPrefix(trimmed, "+1") {
		return "", false
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()

	switch {
	case hasPlus:
		// The country code 1 was part of the +1 prefix.
		number = number[1:]
	case len(number) == 11 && number[0] == '1':
		number = number[1:]
	}

	if len(number) != 10 {
		return "", false
	}
	return "+1" + number, true
}
