// Package widget produces the embeddable form: server-rendered HTML controls
// plus a compiled rules document the embed script uses to pre-validate in the
// browser. The rules mirror what the server enforces so client feedback and
// server verdicts never disagree; the server stays authoritative either way.
package widget

import (
	"github.com/google/uuid"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/validation"
)

// Rules is the client-validation document for one form.
type Rules struct {
	FormID   uuid.UUID    `json:"formId"`
	Name     string       `json:"name"`
	Honeypot string       `json:"honeypot,omitempty"`
	Fields   []FieldRules `json:"fields"`
}

// FieldRules carries the constraints for one field. Only the members that
// apply to the field's type are populated.
type FieldRules struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
	HelpText    string `json:"helpText,omitempty"`

	MinLength int    `json:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
	Format    string `json:"format,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	AllowedDomains []string `json:"allowedDomains,omitempty"`
	BlockedDomains []string `json:"blockedDomains,omitempty"`

	PhoneFormat string `json:"phoneFormat,omitempty"`

	MinDate  string `json:"minDate,omitempty"`
	MaxDate  string `json:"maxDate,omitempty"`
	NoFuture bool   `json:"noFuture,omitempty"`
	NoPast   bool   `json:"noPast,omitempty"`

	Options    []string `json:"options,omitempty"`
	AllowOther bool     `json:"allowOther,omitempty"`

	Parts []PartRules `json:"parts,omitempty"`

	Message string `json:"message,omitempty"`
}

// PartRules describes one sub-input of a composite name field.
type PartRules struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// CompileRules flattens a form schema into the document the embed script
// consumes. Hidden fields are excluded; the browser fills them from their
// configured source, it never validates them.
func CompileRules(f *form.Form) *Rules {
	rules := &Rules{
		FormID:   f.ID,
		Name:     f.Name,
		Honeypot: f.HoneypotField,
	}
	for i := range f.Fields {
		field := &f.Fields[i]
		if field.Type == form.FieldTypeHidden {
			continue
		}
		rules.Fields = append(rules.Fields, compileField(field))
	}
	return rules
}

func compileField(field *form.Field) FieldRules {
	fr := FieldRules{
		Name:        field.Name,
		Type:        string(field.Type),
		Label:       field.DisplayLabel(),
		Required:    field.Required,
		Placeholder: field.Placeholder,
		HelpText:    field.HelpText,
	}

	switch field.Type {
	case form.FieldTypeText, form.FieldTypeTextarea, form.FieldTypeEmail:
		fr.MaxLength = validation.EffectiveMaxLength(field)
		if rules := field.TextValidation(); rules != nil {
			fr.MinLength = rules.MinLength
			fr.Format = string(rules.Format)
			fr.Pattern = rules.Pattern
			fr.Message = rules.Message
		}
		if rules := field.EmailValidation(); rules != nil {
			if rules.DomainRules != nil {
				fr.AllowedDomains = rules.DomainRules.Allow
				fr.BlockedDomains = rules.DomainRules.Block
			}
			fr.Message = rules.Message
		}
	case form.FieldTypePhone:
		fr.PhoneFormat = string(form.PhoneFormatLenient)
		if rules := field.PhoneValidation(); rules != nil {
			if rules.Format != "" {
				fr.PhoneFormat = string(rules.Format)
			}
			fr.Message = rules.Message
		}
	case form.FieldTypeDate:
		if rules := field.DateValidation(); rules != nil {
			fr.MinDate = rules.MinDate
			fr.MaxDate = rules.MaxDate
			fr.NoFuture = rules.NoFuture
			fr.NoPast = rules.NoPast
			fr.Message = rules.Message
		}
	case form.FieldTypeSelect:
		if opts := field.SelectOptions(); opts != nil {
			for _, o := range opts.Options {
				fr.Options = append(fr.Options, o.Value)
			}
			fr.AllowOther = opts.AllowOther
		}
	case form.FieldTypeName:
		opts := field.NameOptions()
		for _, part := range opts.EffectiveParts() {
			fr.Parts = append(fr.Parts, PartRules{
				Name:     string(part),
				Label:    opts.PartLabel(part),
				Required: field.Required || (opts != nil && opts.PartsRequired[part]),
			})
		}
	}

	return fr
}
