package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-crudkit/pkg/schema"
)

func TestParseJSONDispatch(t *testing.T) {
	t.Parallel()

	cfg, err := schema.ParseJSON([]byte(`{"columns": [{"key": "id"}]}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	table, ok := cfg.(schema.TableConfig)
	if !ok {
		t.Fatalf("got %T, want TableConfig", cfg)
	}
	if table.Columns[0].Header != "Id" {
		t.Fatalf("header = %q", table.Columns[0].Header)
	}

	if _, err := schema.ParseJSON([]byte(`{"neither": true}`)); !errors.Is(err, schema.ErrMissingDiscriminator) {
		t.Fatalf("error = %v", err)
	}
	if _, err := schema.ParseJSON([]byte(`not json`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	table, err := schema.ParseTableConfig(
		map[string]any{"columns": []any{map[string]any{"key": "Name "}}},
		schema.WithGenerateLabels(false),
		schema.WithDefaultSortable(false),
		schema.WithDefaultColumnWidth("120px"),
		schema.WithColumnKeyTransform(strings.ToLower),
	)
	if err != nil {
		t.Fatalf("ParseTableConfig: %v", err)
	}

	column := table.Columns[0]
	if column.Key != "name" {
		t.Fatalf("key = %q", column.Key)
	}
	if column.Header != "" {
		t.Fatalf("header = %q, want empty with label generation off", column.Header)
	}
	if column.Sortable {
		t.Fatal("sortable should default false")
	}
	if column.Width != "120px" {
		t.Fatalf("width = %q", column.Width)
	}
}

func TestSanitizedRichText(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"sections": []any{map[string]any{
			"fields": []any{map[string]any{
				"name":     "bio",
				"label":    `<script>alert(1)</script>Bio`,
				"helpText": `Use <b>bold</b> sparingly <img src=x onerror=alert(1)>`,
			}},
		}},
	}

	form, err := schema.ParseFormConfig(raw, schema.WithSanitizedRichText())
	if err != nil {
		t.Fatalf("ParseFormConfig: %v", err)
	}

	field := form.Sections[0].Fields[0]
	if strings.Contains(field.Label, "<script>") {
		t.Fatalf("label kept script: %q", field.Label)
	}
	if !strings.Contains(field.HelpText, "<b>bold</b>") {
		t.Fatalf("helpText lost allowed markup: %q", field.HelpText)
	}
	if strings.Contains(field.HelpText, "onerror") {
		t.Fatalf("helpText kept handler: %q", field.HelpText)
	}
}

func TestAssertValid(t *testing.T) {
	t.Parallel()

	valid, err := schema.ParseJSON([]byte(`{"columns": [{"key": "id"}]}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if err := schema.AssertValid(valid); err != nil {
		t.Fatalf("AssertValid: %v", err)
	}

	invalid, err := schema.ParseJSON([]byte(`{"columns": [{"key": "id"}, {"key": "id"}]}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	err = schema.AssertValid(invalid)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var invalidErr *schema.InvalidConfigError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("error type = %T", err)
	}
	if len(invalidErr.Result.Errors) == 0 {
		t.Fatal("result carries no errors")
	}
}

func TestValidateConfigRawDocument(t *testing.T) {
	t.Parallel()

	// Raw documents validate without a parse step, so holes the parser
	// rejects come back as findings instead of an error.
	result := schema.ValidateConfig(map[string]any{
		"sections": []any{map[string]any{
			"fields": []any{map[string]any{"type": "text"}},
		}},
	})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	found := false
	for _, finding := range result.Errors {
		if finding.Path == "sections[0].fields[0].name" && finding.Severity == schema.SeverityError {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing name finding: %+v", result.Errors)
	}
}

func TestRegistryCustomRule(t *testing.T) {
	t.Parallel()

	registry := schema.NewRegistry()
	registry.RegisterField("code", func(field *schema.FieldConfig) {
		for i := range field.Validation {
			if field.Validation[i].Type == schema.RuleCustom {
				field.Validation[i].Custom = func(value any, _ map[string]any) error {
					return nil
				}
			}
		}
	})

	form, err := schema.ParseJSON([]byte(`{
		"sections": [{"fields": [
			{"name": "code", "validation": [{"type": "custom"}]}
		]}]
	}`), schema.WithRegistry(registry))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	field := form.(schema.FormConfig).Sections[0].Fields[0]
	if field.Validation[0].Custom == nil {
		t.Fatal("registry did not attach custom rule")
	}
}
