package validation

import (
	"time"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
)

const isoDate = "2006-01-02"

// todayToken is resolved against the engine clock at validation time, never
// at schema-authoring time.
const todayToken = "today"

// validateDate parses the value, then applies noFuture, noPast, minDate and
// maxDate as independent checks; the first failing one supplies the message.
// Comparisons are calendar-date comparisons with the time of day zeroed.
func (e *Engine) validateDate(field *form.Field, value string) (any, string) {
	rules := field.DateValidation()
	fail := func(msg string) (any, string) {
		if rules != nil && rules.Message != "" {
			return nil, rules.Message
		}
		return nil, msg
	}

	date, ok := parseDate(value)
	if !ok {
		return fail(field.DisplayLabel() + " must be a valid date.")
	}

	if rules == nil {
		return value, ""
	}

	today := truncateToDay(e.now())

	if rules.NoFuture && date.After(today) {
		return fail(field.DisplayLabel() + " cannot be a future date.")
	}
	if rules.NoPast && date.Before(today) {
		return fail(field.DisplayLabel() + " cannot be a past date.")
	}

	// An unparseable configured bound is skipped rather than blocking every
	// submission; a form owner's configuration mistake stays non-fatal.
	if min, ok := e.resolveBound(rules.MinDate); ok && date.Before(min) {
		return fail(field.DisplayLabel() + " must be on or after " + min.Format(isoDate) + ".")
	}
	if max, ok := e.resolveBound(rules.MaxDate); ok && date.After(max) {
		return fail(field.DisplayLabel() + " must be on or before " + max.Format(isoDate) + ".")
	}

	return value, ""
}

// resolveBound turns a configured minDate/maxDate into a concrete day.
// The literal "today" resolves against the engine clock.
func (e *Engine) resolveBound(configured string) (time.Time, bool) {
	if configured == "" {
		return time.Time{}, false
	}
	if configured == todayToken {
		return truncateToDay(e.now()), true
	}
	bound, ok := parseDate(configured)
	return bound, ok
}

func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse(isoDate, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return truncateToDay(t), true
	}
	return time.Time{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
