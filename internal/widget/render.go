package widget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/validation"
)

// Renderer produces the embeddable widget HTML for a form schema.
type Renderer struct {
	templates  *template.Template
	textPolicy *bluemonday.Policy
	helpPolicy *bluemonday.Policy
}

// NewRenderer parses the embedded template bundle.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(TemplatesFS(), "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("widget renderer: parse templates: %w", err)
	}
	// Labels and placeholders are plain text; help text may carry simple
	// formatting the owner typed into the form builder.
	help := bluemonday.NewPolicy()
	help.AllowElements("b", "strong", "i", "em", "br", "code")
	return &Renderer{
		templates:  tmpl,
		textPolicy: bluemonday.StrictPolicy(),
		helpPolicy: help,
	}, nil
}

// ContentType reports the MIME type of rendered output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the widget markup plus the inlined rules document the embed
// script reads. Control constraints (maxlength, required, options) mirror the
// server engine's effective values.
func (r *Renderer) Render(f *form.Form, action string) ([]byte, error) {
	view, err := r.buildView(f, action)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "form.tmpl", view); err != nil {
		return nil, fmt.Errorf("widget renderer: render form %s: %w", f.ID, err)
	}
	return buf.Bytes(), nil
}

type formView struct {
	FormID    string
	Name      string
	Action    string
	Fields    []fieldView
	Honeypot  string
	RulesJSON template.JS
}

type fieldView struct {
	Name        string
	Type        string
	InputType   string
	Label       string
	Required    bool
	Placeholder string
	HelpText    template.HTML
	MaxLength   int
	Options     []optionView
	Parts       []partView
	Hidden      *hiddenView
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type partView struct {
	Name     string
	Label    string
	Required bool
}

type hiddenView struct {
	Source string
	Value  string
	Param  string
}

func (r *Renderer) buildView(f *form.Form, action string) (*formView, error) {
	rules, err := json.Marshal(CompileRules(f))
	if err != nil {
		return nil, fmt.Errorf("widget renderer: marshal rules: %w", err)
	}

	view := &formView{
		FormID:    f.ID.String(),
		Name:      r.textPolicy.Sanitize(f.Name),
		Action:    action,
		Honeypot:  f.HoneypotField,
		RulesJSON: template.JS(rules), //nolint:gosec // marshaled server-side, not user markup
	}
	for i := range f.Fields {
		view.Fields = append(view.Fields, r.buildFieldView(&f.Fields[i]))
	}
	return view, nil
}

func (r *Renderer) buildFieldView(field *form.Field) fieldView {
	fv := fieldView{
		Name:        field.Name,
		Type:        string(field.Type),
		InputType:   inputType(field.Type),
		Label:       r.textPolicy.Sanitize(field.DisplayLabel()),
		Required:    field.Required,
		Placeholder: r.textPolicy.Sanitize(field.Placeholder),
		HelpText:    template.HTML(r.helpPolicy.Sanitize(field.HelpText)), //nolint:gosec // sanitized above
		MaxLength:   validation.EffectiveMaxLength(field),
	}

	switch field.Type {
	case form.FieldTypeSelect:
		if opts := field.SelectOptions(); opts != nil {
			for _, o := range opts.Options {
				fv.Options = append(fv.Options, optionView{
					Value:    o.Value,
					Label:    r.textPolicy.Sanitize(o.Label),
					Selected: o.Value == opts.DefaultValue && opts.DefaultValue != "",
				})
			}
		}
	case form.FieldTypeName:
		opts := field.NameOptions()
		for _, part := range opts.EffectiveParts() {
			fv.Parts = append(fv.Parts, partView{
				Name:     string(part),
				Label:    r.textPolicy.Sanitize(opts.PartLabel(part)),
				Required: field.Required || (opts != nil && opts.PartsRequired[part]),
			})
		}
	case form.FieldTypeHidden:
		hv := &hiddenView{Source: string(form.HiddenSourceStatic)}
		if opts := field.HiddenOptions(); opts != nil {
			hv.Source = string(opts.ValueSource)
			hv.Value = opts.StaticValue
			hv.Param = opts.ParamName
		}
		fv.Hidden = hv
	}

	return fv
}

// inputType maps a field type to its HTML input type. Composite and
// non-input types are handled by dedicated template branches.
func inputType(t form.FieldType) string {
	switch t {
	case form.FieldTypeEmail:
		return "email"
	case form.FieldTypePhone:
		return "tel"
	case form.FieldTypeDate:
		return "date"
	case form.FieldTypeHidden:
		return "hidden"
	default:
		return "text"
	}
}
