package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	form "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
)

func fixedClock(day string) func() time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t.Add(13 * time.Hour) }
}

func textField(name string, required bool, rules *form.TextValidation) form.Field {
	label := strings.ToUpper(name[:1]) + name[1:]
	f := form.Field{Name: name, Type: form.FieldTypeText, Label: label, Required: required}
	if rules != nil {
		f.Validation = rules
	}
	return f
}

func TestRequiredAndOptionalShortCircuit(t *testing.T) {
	engine := NewEngine()
	fields := []form.Field{
		textField("subject", true, nil),
		textField("nickname", false, &form.TextValidation{MinLength: 5}),
	}

	// Missing required field errors; empty optional field skips its
	// minLength check entirely.
	result, normalized := engine.Validate(fields, Payload{"nickname": ""})
	assert.Equal(t, "Subject is required.", result["subject"])
	assert.NotContains(t, result, "nickname")
	assert.Nil(t, normalized)

	result, normalized = engine.Validate(fields, Payload{"subject": "hello", "nickname": ""})
	assert.Empty(t, result)
	assert.Equal(t, "hello", normalized["subject"])
	assert.NotContains(t, normalized, "nickname")
}

func TestWhitespaceOnlyCountsAsEmpty(t *testing.T) {
	engine := NewEngine()
	fields := []form.Field{textField("subject", true, nil)}

	result, _ := engine.Validate(fields, Payload{"subject": "   "})
	assert.Equal(t, "Subject is required.", result["subject"])
}

func TestDeterminism(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock("2026-03-01")))
	fields := []form.Field{
		textField("subject", true, nil),
		{Name: "email", Type: form.FieldTypeEmail, Label: "Email", Required: true},
	}
	payload := Payload{"email": "not-an-email"}

	first, _ := engine.Validate(fields, payload)
	second, _ := engine.Validate(fields, payload)
	assert.Equal(t, first, second)
}

func TestPerFieldIndependence(t *testing.T) {
	engine := NewEngine()
	bad := textField("a", true, nil)
	good := textField("b", false, nil)

	withBad, _ := engine.Validate([]form.Field{bad, good}, Payload{"b": "fine"})
	alone, _ := engine.Validate([]form.Field{good}, Payload{"b": "fine"})

	assert.Contains(t, withBad, "a")
	assert.NotContains(t, withBad, "b")
	assert.NotContains(t, alone, "b")
}

func TestEmailFormat(t *testing.T) {
	engine := NewEngine()
	field := form.Field{Name: "email", Type: form.FieldTypeEmail, Label: "Email", Required: true}

	tests := []struct {
		value string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"o'brien@example.com", true},
		{"no-at-sign", false},
		{"user@", false},
		{"@example.com", false},
		{"user@nodot", false},
		{"user@-bad.com", false},
		{"user@@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			result, _ := engine.Validate([]form.Field{field}, Payload{"email": tt.value})
			if tt.valid {
				assert.Empty(t, result)
			} else {
				assert.Equal(t, "Enter a valid email address", result["email"])
			}
		})
	}
}

func TestEmailDomainRulesAllowThenBlock(t *testing.T) {
	engine := NewEngine()
	field := form.Field{
		Name: "email", Type: form.FieldTypeEmail, Label: "Email", Required: true,
		Validation: &form.EmailValidation{DomainRules: &form.DomainRules{
			Allow: []string{"corp.example"},
			Block: []string{"corp.example"},
		}},
	}

	// A domain in the allow list still trips the independent block check.
	result, _ := engine.Validate([]form.Field{field}, Payload{"email": "a@corp.example"})
	assert.Equal(t, "Email domain is not allowed.", result["email"])

	result, _ = engine.Validate([]form.Field{field}, Payload{"email": "a@other.example"})
	assert.Equal(t, "Email must be from an allowed domain.", result["email"])
}

func TestEmailDomainCaseInsensitive(t *testing.T) {
	engine := NewEngine()
	field := form.Field{
		Name: "email", Type: form.FieldTypeEmail, Label: "Email",
		Validation: &form.EmailValidation{DomainRules: &form.DomainRules{Block: []string{"Spam.COM"}}},
	}
	result, _ := engine.Validate([]form.Field{field}, Payload{"email": "a@SPAM.com"})
	assert.Equal(t, "Email domain is not allowed.", result["email"])
}

func TestEmailNormalizeLowercasesOnlyWhenValid(t *testing.T) {
	engine := NewEngine()
	email := form.Field{
		Name: "email", Type: form.FieldTypeEmail, Label: "Email", Required: true,
		Validation: &form.EmailValidation{Normalize: true},
	}
	subject := textField("subject", true, nil)

	_, normalized := engine.Validate([]form.Field{email, subject}, Payload{
		"email":   "User@Example.COM",
		"subject": "hi",
	})
	require.NotNil(t, normalized)
	assert.Equal(t, "user@example.com", normalized["email"])

	// When another field fails, no normalized map is produced at all.
	_, normalized = engine.Validate([]form.Field{email, subject}, Payload{
		"email": "User@Example.COM",
	})
	assert.Nil(t, normalized)
}

func TestDateRules(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock("2026-03-15")))

	tests := []struct {
		name    string
		rules   *form.DateValidation
		value   string
		wantErr string
	}{
		{"unparseable", nil, "not-a-date", "Date must be a valid date."},
		{"plain valid", nil, "2026-03-10", ""},
		{"noFuture rejects tomorrow", &form.DateValidation{NoFuture: true}, "2026-03-16", "Date cannot be a future date."},
		{"noFuture accepts today", &form.DateValidation{NoFuture: true}, "2026-03-15", ""},
		{"noPast rejects yesterday", &form.DateValidation{NoPast: true}, "2026-03-14", "Date cannot be a past date."},
		{"minDate literal today", &form.DateValidation{MinDate: "today"}, "2026-03-14", "Date must be on or after 2026-03-15."},
		{"maxDate iso", &form.DateValidation{MaxDate: "2026-04-01"}, "2026-04-02", "Date must be on or before 2026-04-01."},
		{"unparseable bound skipped", &form.DateValidation{MinDate: "soonish"}, "1990-01-01", ""},
		{"custom message", &form.DateValidation{NoPast: true, Message: "Pick a later day"}, "2020-01-01", "Pick a later day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := form.Field{Name: "date", Type: form.FieldTypeDate, Label: "Date", Required: true, Validation: tt.rules}
			result, _ := engine.Validate([]form.Field{field}, Payload{"date": tt.value})
			if tt.wantErr == "" {
				assert.Empty(t, result)
			} else {
				assert.Equal(t, tt.wantErr, result["date"])
			}
		})
	}
}

func TestNamePartsRequired(t *testing.T) {
	engine := NewEngine()
	field := form.Field{
		Name: "name", Type: form.FieldTypeName, Label: "Name", Required: true,
		Options: &form.NameOptions{Parts: []form.NamePart{form.NamePartFirst, form.NamePartLast}},
	}

	result, _ := engine.Validate([]form.Field{field}, Payload{
		"name": map[string]any{"first": "", "last": "Doe"},
	})
	assert.Equal(t, "First Name is required.", result["name"])

	result, normalized := engine.Validate([]form.Field{field}, Payload{
		"name": map[string]any{"first": " Ada ", "last": "Lovelace"},
	})
	require.Empty(t, result)
	assert.Equal(t, map[string]string{"first": "Ada", "last": "Lovelace"}, normalized["name"])
}

func TestNamePartsRequiredPerPartWithoutFieldRequired(t *testing.T) {
	engine := NewEngine()
	field := form.Field{
		Name: "name", Type: form.FieldTypeName, Label: "Name",
		Options: &form.NameOptions{
			Parts:         []form.NamePart{form.NamePartFirst, form.NamePartLast},
			PartsRequired: map[form.NamePart]bool{form.NamePartLast: true},
		},
	}

	result, _ := engine.Validate([]form.Field{field}, Payload{
		"name": map[string]any{"first": "Ada"},
	})
	assert.Equal(t, "Last Name is required.", result["name"])
}

func TestSelectMembership(t *testing.T) {
	engine := NewEngine()
	field := form.Field{
		Name: "plan", Type: form.FieldTypeSelect, Label: "Plan", Required: true,
		Options: &form.SelectOptions{Options: []form.SelectOption{{Value: "a"}, {Value: "b"}}},
	}

	result, _ := engine.Validate([]form.Field{field}, Payload{"plan": "c"})
	assert.Equal(t, "Plan must be a valid option.", result["plan"])

	result, _ = engine.Validate([]form.Field{field}, Payload{"plan": "b"})
	assert.Empty(t, result)
}

func TestSelectAllowOtherAcceptsFreeText(t *testing.T) {
	engine := NewEngine()
	field := form.Field{
		Name: "plan", Type: form.FieldTypeSelect, Label: "Plan",
		Options: &form.SelectOptions{
			Options:    []form.SelectOption{{Value: "a"}},
			AllowOther: true,
		},
	}
	result, _ := engine.Validate([]form.Field{field}, Payload{"plan": "something else"})
	assert.Empty(t, result)
}

func TestCheckboxRequired(t *testing.T) {
	engine := NewEngine()
	field := form.Field{Name: "terms", Type: form.FieldTypeCheckbox, Label: "Terms", Required: true}

	for _, falsy := range []any{nil, false, "", "false", "0"} {
		result, _ := engine.Validate([]form.Field{field}, Payload{"terms": falsy})
		assert.Equal(t, "Terms is required.", result["terms"], "value %v", falsy)
	}

	for _, truthy := range []any{true, "true", "on", "1"} {
		result, normalized := engine.Validate([]form.Field{field}, Payload{"terms": truthy})
		require.Empty(t, result, "value %v", truthy)
		assert.Equal(t, true, normalized["terms"])
	}
}

func TestEffectiveMaxLengthMonotonic(t *testing.T) {
	tests := []struct {
		fieldType  form.FieldType
		configured int
		want       int
	}{
		{form.FieldTypeText, 0, 200},
		{form.FieldTypeText, 100, 100},
		{form.FieldTypeText, 9999, 500},
		{form.FieldTypeEmail, 0, 254},
		{form.FieldTypeEmail, 1000, 320},
		{form.FieldTypeTextarea, 0, 2000},
		{form.FieldTypeTextarea, 50000, 10000},
	}
	for _, tt := range tests {
		field := form.Field{Name: "f", Type: tt.fieldType}
		if tt.configured > 0 {
			field.Validation = &form.TextValidation{MaxLength: tt.configured}
		}
		assert.Equal(t, tt.want, EffectiveMaxLength(&field), "%s configured=%d", tt.fieldType, tt.configured)
	}
}

func TestLengthChecksMinFirst(t *testing.T) {
	engine := NewEngine()
	field := textField("code", true, &form.TextValidation{MinLength: 4, MaxLength: 6})

	result, _ := engine.Validate([]form.Field{field}, Payload{"code": "ab"})
	assert.Equal(t, "Code must be at least 4 characters.", result["code"])

	result, _ = engine.Validate([]form.Field{field}, Payload{"code": "abcdefg"})
	assert.Equal(t, "Code must be at most 6 characters.", result["code"])
}

func TestLengthCountsRunesNotBytes(t *testing.T) {
	engine := NewEngine()
	field := textField("note", true, &form.TextValidation{MaxLength: 6})

	// Six CJK characters are 18 bytes; a browser maxlength counts 6, and so
	// must the engine.
	result, normalized := engine.Validate([]form.Field{field}, Payload{"note": "日本語入力欄"})
	assert.Empty(t, result)
	assert.Equal(t, "日本語入力欄", normalized["note"])

	result, _ = engine.Validate([]form.Field{field}, Payload{"note": "日本語入力欄あ"})
	assert.Equal(t, "Note must be at most 6 characters.", result["note"])
}

func TestTextFormats(t *testing.T) {
	engine := NewEngine()
	tests := []struct {
		format form.TextFormat
		ok     []string
		bad    []string
	}{
		{form.TextFormatNumbers, []string{"12345"}, []string{"12a45"}},
		{form.TextFormatLetters, []string{"New York"}, []string{"NY 10001"}},
		{form.TextFormatURL, []string{"https://example.com/x"}, []string{"example", "ftp://example.com"}},
		{form.TextFormatPostalUS, []string{"10001", "10001-1234"}, []string{"1000", "ABCDE"}},
		{form.TextFormatPostalCA, []string{"K1A 0B1", "K1A0B1"}, []string{"11111", "K1A 0B"}},
		{form.TextFormatAlphanumeric, []string{"anything at all!"}, nil},
	}
	for _, tt := range tests {
		field := textField("value", true, &form.TextValidation{Format: tt.format})
		for _, v := range tt.ok {
			result, _ := engine.Validate([]form.Field{field}, Payload{"value": v})
			assert.Empty(t, result, "%s should accept %q", tt.format, v)
		}
		for _, v := range tt.bad {
			result, _ := engine.Validate([]form.Field{field}, Payload{"value": v})
			assert.NotEmpty(t, result, "%s should reject %q", tt.format, v)
		}
	}
}

func TestInvalidCustomPatternSkipped(t *testing.T) {
	engine := NewEngine()
	field := textField("code", true, &form.TextValidation{Pattern: "([unclosed"})

	result, _ := engine.Validate([]form.Field{field}, Payload{"code": "anything"})
	assert.Empty(t, result, "an unparseable owner pattern must not reject submissions")

	field = textField("code", true, &form.TextValidation{Pattern: `^[A-Z]{3}$`})
	result, _ = engine.Validate([]form.Field{field}, Payload{"code": "nope"})
	assert.Equal(t, "Code is not in the expected format.", result["code"])
}

// The worked example from the submission contract: blocked email domain plus
// a missing required name part produce exactly one message per field.
func TestBlockedDomainAndMissingNamePart(t *testing.T) {
	engine := NewEngine()
	fields := []form.Field{
		{
			Name: "email", Type: form.FieldTypeEmail, Label: "Email", Required: true,
			Validation: &form.EmailValidation{DomainRules: &form.DomainRules{Block: []string{"spam.com"}}},
		},
		{
			Name: "name", Type: form.FieldTypeName, Label: "Name", Required: true,
			Options: &form.NameOptions{Parts: []form.NamePart{form.NamePartFirst, form.NamePartLast}},
		},
	}

	result, normalized := engine.Validate(fields, Payload{
		"email": "a@spam.com",
		"name":  map[string]any{"first": "", "last": "Doe"},
	})

	assert.Equal(t, Result{
		"email": "Email domain is not allowed.",
		"name":  "First Name is required.",
	}, result)
	assert.Nil(t, normalized)
}
