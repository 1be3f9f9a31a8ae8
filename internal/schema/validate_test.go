package schema

import (
	"strings"
	"testing"
)

func findingAt(findings []Finding, fragment string) (Finding, bool) {
	for _, finding := range findings {
		if strings.Contains(finding.Path, fragment) || strings.Contains(finding.Message, fragment) {
			return finding, true
		}
	}
	return Finding{}, false
}

func TestValidateTable(t *testing.T) {
	t.Parallel()

	table, err := ParseTable(decodeConfig(t, `{
		"columns": [
			{"key": "name"},
			{"key": "name", "header": "Duplicate"},
			{"key": "avatar", "type": "thumbnail"},
			{"key": "state", "showWhen": {"field": "role", "operator": "resembles", "value": "x"}}
		],
		"sortBy": {"column": "missing"}
	}`), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}

	result := ValidateTable(table)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if _, ok := findingAt(result.Errors, `duplicate column key "name"`); !ok {
		t.Fatalf("missing duplicate-key error: %+v", result.Errors)
	}
	if _, ok := findingAt(result.Errors, "unknown condition operator"); !ok {
		t.Fatalf("missing operator error: %+v", result.Errors)
	}
	if _, ok := findingAt(result.Warnings, `unknown column type "thumbnail"`); !ok {
		t.Fatalf("missing type warning: %+v", result.Warnings)
	}
	if _, ok := findingAt(result.Warnings, "sortBy.column"); !ok {
		t.Fatalf("missing sort warning: %+v", result.Warnings)
	}
}

func TestValidateForm(t *testing.T) {
	t.Parallel()

	form, err := ParseForm(decodeConfig(t, `{
		"sections": [
			{"title": "One", "fields": [
				{"name": "email", "type": "email"},
				{"name": "plan", "type": "select"},
				{"name": "code", "validation": [{"type": "pattern", "value": "["}]},
				{"name": "confirm", "validation": [{"type": "match", "value": "password"}]},
				{"name": "total", "computed": {"formula": "{price} * 2", "deps": ["price"]}},
				{"name": "extra", "showWhen": {"field": "ghost", "operator": "notEmpty"}}
			]},
			{"title": "Two", "fields": [
				{"name": "email", "type": "text"}
			]}
		]
	}`), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	result := ValidateForm(form)
	if result.Valid {
		t.Fatal("expected invalid result")
	}

	for _, fragment := range []string{
		`duplicate field name "email"`,
		`field "plan" of type "select" requires options`,
		"invalid pattern",
		`match rule references unknown field "password"`,
		`depends on unknown field "price"`,
		`condition references unknown field "ghost"`,
	} {
		if _, ok := findingAt(result.Errors, fragment); !ok {
			t.Fatalf("missing error %q in %+v", fragment, result.Errors)
		}
	}
}

func TestValidateFormComputed(t *testing.T) {
	t.Parallel()

	form, err := ParseForm(decodeConfig(t, `{
		"sections": [{"fields": [
			{"name": "a", "type": "number"},
			{"name": "broken", "computed": {"formula": "", "deps": []}}
		]}]
	}`), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	result := ValidateForm(form)
	if _, ok := findingAt(result.Errors, "empty formula"); !ok {
		t.Fatalf("missing formula error: %+v", result.Errors)
	}
	if _, ok := findingAt(result.Errors, "declares no dependencies"); !ok {
		t.Fatalf("missing deps error: %+v", result.Errors)
	}
}

func TestValidateFormFlagConditions(t *testing.T) {
	t.Parallel()

	form, err := ParseForm(decodeConfig(t, `{
		"sections": [{"fields": [
			{"name": "beta", "showWhen": {"field": "flags.newEditor", "operator": "eq", "value": true}}
		]}]
	}`), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	if result := ValidateForm(form); !result.Valid {
		t.Fatalf("flag references should not be field-checked: %+v", result.Errors)
	}
}

func TestValidateFormCustomRuleWarning(t *testing.T) {
	t.Parallel()

	form, err := ParseForm(decodeConfig(t, `{
		"sections": [{"fields": [
			{"name": "code", "validation": [{"type": "custom"}]}
		]}]
	}`), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	result := ValidateForm(form)
	if !result.Valid {
		t.Fatalf("custom rule should downgrade to a warning: %+v", result.Errors)
	}
	if _, ok := findingAt(result.Warnings, "custom rule"); !ok {
		t.Fatalf("missing custom-rule warning: %+v", result.Warnings)
	}
}

func TestValidateModal(t *testing.T) {
	t.Parallel()

	modal, err := ParseModal(decodeConfig(t, `{
		"title": "Edit",
		"form": {"sections": [{"fields": [
			{"name": "role", "type": "radio"}
		]}]}
	}`), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseModal: %v", err)
	}

	result := ValidateModal(modal)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	finding, ok := findingAt(result.Errors, "requires options")
	if !ok {
		t.Fatalf("missing nested error: %+v", result.Errors)
	}
	if !strings.HasPrefix(finding.Path, "form.") {
		t.Fatalf("nested path = %q", finding.Path)
	}
}

func TestValidateRaw(t *testing.T) {
	t.Parallel()

	// Shapes the strict parser refuses still come back as findings here.
	result := ValidateRaw(decodeConfig(t, `{"columns": [{"header": "Name"}, "nope"]}`))
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if _, ok := findingAt(result.Errors, "columns[0].key"); !ok {
		t.Fatalf("missing key error: %+v", result.Errors)
	}
	if _, ok := findingAt(result.Errors, "columns[1]"); !ok {
		t.Fatalf("missing object error: %+v", result.Errors)
	}

	result = ValidateRaw(decodeConfig(t, `{"sections": [
		{"fields": [{"type": "text"}]},
		{"title": "Empty"}
	]}`))
	if _, ok := findingAt(result.Errors, "sections[0].fields[0].name"); !ok {
		t.Fatalf("missing name error: %+v", result.Errors)
	}
	if _, ok := findingAt(result.Errors, "sections[1].fields"); !ok {
		t.Fatalf("missing fields error: %+v", result.Errors)
	}

	result = ValidateRaw(decodeConfig(t, `{"columns": []}`))
	if _, ok := findingAt(result.Errors, "non-empty columns array"); !ok {
		t.Fatalf("missing empty-columns error: %+v", result.Errors)
	}

	result = ValidateRaw(decodeConfig(t, `{"title": "neither"}`))
	if _, ok := findingAt(result.Errors, "neither a columns nor a sections key"); !ok {
		t.Fatalf("missing discriminator error: %+v", result.Errors)
	}

	// A parseable raw document flows into the full validator.
	result = ValidateRaw(decodeConfig(t, `{"columns": [{"key": "avatar", "type": "thumbnail"}]}`))
	if !result.Valid {
		t.Fatalf("result = %+v", result)
	}
	if _, ok := findingAt(result.Warnings, `unknown column type "thumbnail"`); !ok {
		t.Fatalf("missing type warning: %+v", result.Warnings)
	}
}
