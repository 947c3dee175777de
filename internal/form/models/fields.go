package models

import (
	"encoding/json"
	"fmt"
)

// FieldType enumerates the supported field kinds. The shape of a field's
// Options and Validation is determined solely by its type.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypePhone    FieldType = "phone"
	FieldTypeDate     FieldType = "date"
	FieldTypeName     FieldType = "name"
	FieldTypeHidden   FieldType = "hidden"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTextarea, FieldTypeSelect,
		FieldTypeCheckbox, FieldTypePhone, FieldTypeDate, FieldTypeName, FieldTypeHidden:
		return true
	}
	return false
}

// Field is the immutable schema-time definition of a single form input.
// Options and Validation are closed tagged unions resolved from Type during
// JSON decoding; only the variant matching the type is ever populated.
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	HelpText    string    `json:"helpText,omitempty"`

	Options    FieldOptions    `json:"-"`
	Validation FieldValidation `json:"-"`
}

// FieldOptions is the per-type options union. Variants: SelectOptions,
// NameOptions, HiddenOptions.
type FieldOptions interface {
	isFieldOptions()
}

// FieldValidation is the per-type validation union. Variants: TextValidation,
// EmailValidation, PhoneValidation, DateValidation.
type FieldValidation interface {
	isFieldValidation()
}

// SelectOption is one choice in a select field.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SelectOptions configures a select field. Values must be unique.
type SelectOptions struct {
	Options      []SelectOption `json:"options"`
	DefaultValue string         `json:"defaultValue,omitempty"`
	AllowOther   bool           `json:"allowOther,omitempty"`
}

func (*SelectOptions) isFieldOptions() {}

// NamePart identifies one sub-input of a composite name field.
type NamePart string

const (
	NamePartFirst         NamePart = "first"
	NamePartLast          NamePart = "last"
	NamePartMiddle        NamePart = "middle"
	NamePartMiddleInitial NamePart = "middleInitial"
	NamePartSingle        NamePart = "single"
)

// DefaultNameParts is used when a name field configures no explicit parts.
var DefaultNameParts = []NamePart{NamePartFirst, NamePartLast}

// defaultPartLabels are the fallback labels used in error messages and
// rendered controls when the form owner configures none.
var defaultPartLabels = map[NamePart]string{
	NamePartFirst:         "First Name",
	NamePartLast:          "Last Name",
	NamePartMiddle:        "Middle Name",
	NamePartMiddleInitial: "Middle Initial",
	NamePartSingle:        "Full Name",
}

// NameOptions configures a composite name field. If "single" is among the
// parts it must be the only part.
type NameOptions struct {
	Parts         []NamePart          `json:"parts,omitempty"`
	PartLabels    map[NamePart]string `json:"partLabels,omitempty"`
	PartsRequired map[NamePart]bool   `json:"partsRequired,omitempty"`
}

func (*NameOptions) isFieldOptions() {}

// EffectiveParts returns the configured parts, or the first/last default.
func (o *NameOptions) EffectiveParts() []NamePart {
	if o == nil || len(o.Parts) == 0 {
		return DefaultNameParts
	}
	return o.Parts
}

// PartLabel returns the display label for a part, preferring configured labels.
func (o *NameOptions) PartLabel(part NamePart) string {
	if o != nil {
		if label, ok := o.PartLabels[part]; ok && label != "" {
			return label
		}
	}
	if label, ok := defaultPartLabels[part]; ok {
		return label
	}
	return string(part)
}

// HiddenSource determines where the widget collector reads a hidden value from.
type HiddenSource string

const (
	HiddenSourceStatic   HiddenSource = "static"
	HiddenSourceURLParam HiddenSource = "urlParam"
	HiddenSourcePageURL  HiddenSource = "pageUrl"
	HiddenSourceReferrer HiddenSource = "referrer"
)

// HiddenOptions configures a hidden field.
type HiddenOptions struct {
	ValueSource HiddenSource `json:"valueSource"`
	StaticValue string       `json:"staticValue,omitempty"`
	ParamName   string       `json:"paramName,omitempty"`
}

func (*HiddenOptions) isFieldOptions() {}

// TextFormat names an extra format check for text and textarea fields.
// "alphanumeric" is the explicit no-extra-check default and never acts as a
// constraint.
type TextFormat string

const (
	TextFormatAlphanumeric TextFormat = "alphanumeric"
	TextFormatNumbers      TextFormat = "numbers"
	TextFormatLetters      TextFormat = "letters"
	TextFormatURL          TextFormat = "url"
	TextFormatPostalUS     TextFormat = "postal-us"
	TextFormatPostalCA     TextFormat = "postal-ca"
)

// TextValidation configures text and textarea fields. Pattern is an optional
// owner-supplied regular expression; an unparseable pattern is skipped at
// validation time rather than failing closed.
type TextValidation struct {
	MinLength int        `json:"minLength,omitempty"`
	MaxLength int        `json:"maxLength,omitempty"`
	Format    TextFormat `json:"format,omitempty"`
	Pattern   string     `json:"pattern,omitempty"`
	Message   string     `json:"message,omitempty"`
}

func (*TextValidation) isFieldValidation() {}

// DomainRules restricts which email domains are acceptable. Allow is checked
// before Block; the two lists are independent.
type DomainRules struct {
	Allow []string `json:"allow,omitempty"`
	Block []string `json:"block,omitempty"`
}

// EmailValidation configures email fields.
type EmailValidation struct {
	DomainRules *DomainRules `json:"domainRules,omitempty"`
	Normalize   bool         `json:"normalize,omitempty"`
	Message     string       `json:"message,omitempty"`
}

func (*EmailValidation) isFieldValidation() {}

// PhoneFormat selects the phone validation mode.
type PhoneFormat string

const (
	PhoneFormatLenient PhoneFormat = "lenient"
	PhoneFormatStrict  PhoneFormat = "strict"
)

// PhoneValidation configures phone fields.
type PhoneValidation struct {
	Format  PhoneFormat `json:"format,omitempty"`
	Message string      `json:"message,omitempty"`
}

func (*PhoneValidation) isFieldValidation() {}

// DateValidation configures date fields. MinDate and MaxDate hold ISO dates
// or the literal token "today", resolved at validation time.
type DateValidation struct {
	MinDate  string `json:"minDate,omitempty"`
	MaxDate  string `json:"maxDate,omitempty"`
	NoFuture bool   `json:"noFuture,omitempty"`
	NoPast   bool   `json:"noPast,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (*DateValidation) isFieldValidation() {}

// fieldJSON is the wire shape of a field. Options and validation stay raw
// until the type is known.
type fieldJSON struct {
	Name        string          `json:"name"`
	Type        FieldType       `json:"type"`
	Label       string          `json:"label"`
	Required    bool            `json:"required"`
	Placeholder string          `json:"placeholder,omitempty"`
	HelpText    string          `json:"helpText,omitempty"`
	Options     json.RawMessage `json:"options,omitempty"`
	Validation  json.RawMessage `json:"validation,omitempty"`
}

// UnmarshalJSON decodes a field and resolves the options/validation unions
// from the field type. Shapes that do not belong to the type are rejected.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.Valid() {
		return fmt.Errorf("field %q: unknown type %q", raw.Name, raw.Type)
	}

	f.Name = raw.Name
	f.Type = raw.Type
	f.Label = raw.Label
	f.Required = raw.Required
	f.Placeholder = raw.Placeholder
	f.HelpText = raw.HelpText
	f.Options = nil
	f.Validation = nil

	if len(raw.Options) > 0 && string(raw.Options) != "null" {
		opts, err := decodeOptions(raw.Type, raw.Options)
		if err != nil {
			return fmt.Errorf("field %q: %w", raw.Name, err)
		}
		f.Options = opts
	}
	if len(raw.Validation) > 0 && string(raw.Validation) != "null" {
		rules, err := decodeValidation(raw.Type, raw.Validation)
		if err != nil {
			return fmt.Errorf("field %q: %w", raw.Name, err)
		}
		f.Validation = rules
	}
	return nil
}

// MarshalJSON re-emits the union variants under the generic options and
// validation keys.
func (f Field) MarshalJSON() ([]byte, error) {
	raw := fieldJSON{
		Name:        f.Name,
		Type:        f.Type,
		Label:       f.Label,
		Required:    f.Required,
		Placeholder: f.Placeholder,
		HelpText:    f.HelpText,
	}
	if f.Options != nil {
		data, err := json.Marshal(f.Options)
		if err != nil {
			return nil, err
		}
		raw.Options = data
	}
	if f.Validation != nil {
		data, err := json.Marshal(f.Validation)
		if err != nil {
			return nil, err
		}
		raw.Validation = data
	}
	return json.Marshal(raw)
}

func decodeOptions(t FieldType, data json.RawMessage) (FieldOptions, error) {
	switch t {
	case FieldTypeSelect:
		var opts SelectOptions
		if err := json.Unmarshal(data, &opts); err != nil {
			return nil, fmt.Errorf("decode select options: %w", err)
		}
		return &opts, nil
	case FieldTypeName:
		var opts NameOptions
		if err := json.Unmarshal(data, &opts); err != nil {
			return nil, fmt.Errorf("decode name options: %w", err)
		}
		return &opts, nil
	case FieldTypeHidden:
		var opts HiddenOptions
		if err := json.Unmarshal(data, &opts); err != nil {
			return nil, fmt.Errorf("decode hidden options: %w", err)
		}
		return &opts, nil
	default:
		return nil, fmt.Errorf("type %q does not take options", t)
	}
}

func decodeValidation(t FieldType, data json.RawMessage) (FieldValidation, error) {
	switch t {
	case FieldTypeText, FieldTypeTextarea:
		var rules TextValidation
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("decode text validation: %w", err)
		}
		return &rules, nil
	case FieldTypeEmail:
		var rules EmailValidation
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("decode email validation: %w", err)
		}
		return &rules, nil
	case FieldTypePhone:
		var rules PhoneValidation
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("decode phone validation: %w", err)
		}
		return &rules, nil
	case FieldTypeDate:
		var rules DateValidation
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("decode date validation: %w", err)
		}
		return &rules, nil
	default:
		return nil, fmt.Errorf("type %q does not take validation rules", t)
	}
}

// SelectOptions returns the select variant, or nil if the field is not a
// select or carries no options.
func (f *Field) SelectOptions() *SelectOptions {
	opts, _ := f.Options.(*SelectOptions)
	return opts
}

// NameOptions returns the name variant, or nil.
func (f *Field) NameOptions() *NameOptions {
	opts, _ := f.Options.(*NameOptions)
	return opts
}

// HiddenOptions returns the hidden variant, or nil.
func (f *Field) HiddenOptions() *HiddenOptions {
	opts, _ := f.Options.(*HiddenOptions)
	return opts
}

// TextValidation returns the text variant, or nil.
func (f *Field) TextValidation() *TextValidation {
	rules, _ := f.Validation.(*TextValidation)
	return rules
}

// EmailValidation returns the email variant, or nil.
func (f *Field) EmailValidation() *EmailValidation {
	rules, _ := f.Validation.(*EmailValidation)
	return rules
}

// PhoneValidation returns the phone variant, or nil.
func (f *Field) PhoneValidation() *PhoneValidation {
	rules, _ := f.Validation.(*PhoneValidation)
	return rules
}

// DateValidation returns the date variant, or nil.
func (f *Field) DateValidation() *DateValidation {
	rules, _ := f.Validation.(*DateValidation)
	return rules
}

// DisplayLabel returns the label, falling back to the field name.
func (f *Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}
