package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Form is the schema a site owner configured: the field list plus the
// submission-window and anti-spam settings the engine enforces.
type Form struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Fields         []Field    `json:"fields"`
	AllowedDomains []string   `json:"allowed_domains,omitempty"`
	HoneypotField  string     `json:"honeypot_field,omitempty"`
	StopAt         *time.Time `json:"stop_at,omitempty"`
	MaxSubmissions int        `json:"max_submissions,omitempty"` // 0 means unlimited
	NotifyEmails   []string   `json:"notify_emails,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Validate checks schema-time invariants: field names non-empty and unique,
// select values unique, and "single" exclusive among name parts.
func (f *Form) Validate() error {
	seen := make(map[string]struct{}, len(f.Fields))
	for i := range f.Fields {
		field := &f.Fields[i]
		if field.Name == "" {
			return fmt.Errorf("field %d: name is required", i)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("field name %q is not unique", field.Name)
		}
		seen[field.Name] = struct{}{}

		if !field.Type.Valid() {
			return fmt.Errorf("field %q: unknown type %q", field.Name, field.Type)
		}

		if opts := field.SelectOptions(); opts != nil {
			values := make(map[string]struct{}, len(opts.Options))
			for _, opt := range opts.Options {
				if _, dup := values[opt.Value]; dup {
					return fmt.Errorf("field %q: duplicate option value %q", field.Name, opt.Value)
				}
				values[opt.Value] = struct{}{}
			}
		}

		if opts := field.NameOptions(); opts != nil {
			for _, part := range opts.Parts {
				if part == NamePartSingle && len(opts.Parts) > 1 {
					return fmt.Errorf("field %q: %q must be the only name part", field.Name, NamePartSingle)
				}
			}
		}
	}
	return nil
}

// FieldByName returns the field with the given name, or nil.
func (f *Form) FieldByName(name string) *Field {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			return &f.Fields[i]
		}
	}
	return nil
}
