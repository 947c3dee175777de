package validation

import (
	"regexp"
	"strings"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
)

// emailPattern is RFC-5322-influenced: the full atom token set in the local
// part, and a domain of dot-separated label groups.
var emailPattern = regexp.MustCompile(
	`^[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)+$`,
)

// validateEmail checks format, then domain allow/block rules, then the
// generic length pass. Lower-casing happens at normalization time only, so a
// rejected value is echoed back exactly as submitted.
func (e *Engine) validateEmail(field *form.Field, value string) (any, string) {
	rules := field.EmailValidation()

	if !emailPattern.MatchString(value) {
		if rules != nil && rules.Message != "" {
			return nil, rules.Message
		}
		return nil, "Enter a valid email address"
	}

	if rules != nil && rules.DomainRules != nil {
		domain := strings.ToLower(value[strings.LastIndexByte(value, '@')+1:])

		// Allow is checked before block; the two lists are independent.
		if len(rules.DomainRules.Allow) > 0 && !containsDomain(rules.DomainRules.Allow, domain) {
			return nil, field.DisplayLabel() + " must be from an allowed domain."
		}
		if containsDomain(rules.DomainRules.Block, domain) {
			return nil, field.DisplayLabel() + " domain is not allowed."
		}
	}

	if msg := checkLength(field, value, nil); msg != "" {
		return nil, msg
	}

	if rules != nil && rules.Normalize {
		return strings.ToLower(value), ""
	}
	return value, ""
}

func containsDomain(list []string, domain string) bool {
	for _, entry := range list {
		if strings.EqualFold(strings.TrimSpace(entry), domain) {
			return true
		}
	}
	return false
}
