// Package policy applies a form's submission-window and anti-spam settings.
// These checks run before field validation: they are cheap and reject
// whole requests, never individual fields.
package policy

import (
	"time"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
	domainerrors "github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/domain-errors"
)

// CheckOpen verifies the form still accepts submissions at the given time.
// nonSpamCount is the number of prior non-spam submissions; spam never
// consumes the quota.
func CheckOpen(f *form.Form, nonSpamCount int, now time.Time) error {
	if f.StopAt != nil && now.After(*f.StopAt) {
		return domainerrors.New(domainerrors.CodeSubmissionClosed,
			"This form is no longer accepting submissions.")
	}
	if f.MaxSubmissions > 0 && nonSpamCount >= f.MaxSubmissions {
		return domainerrors.New(domainerrors.CodeSubmissionClosed,
			"This form has reached its maximum number of submissions.")
	}
	return nil
}

// IsSpam reports whether the payload tripped the form's honeypot: the
// configured decoy field is present with a non-empty, truthy value. Spam is
// classified after field validation passes and never causes an error
// response, so bots see the same success a real submitter would.
func IsSpam(f *form.Form, payload map[string]any) bool {
	if f.HoneypotField == "" {
		return false
	}
	raw, ok := payload[f.HoneypotField]
	if !ok {
		return false
	}
	switch v := raw.(type) {
	case string:
		return v != ""
	case bool:
		return v
	case nil:
		return false
	default:
		// Any other populated value means something filled the decoy.
		return true
	}
}
