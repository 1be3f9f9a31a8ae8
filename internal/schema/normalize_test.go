package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudkit/pkg/condition"
)

func decodeConfig(t *testing.T, payload string) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return raw
}

func TestParseTableDefaults(t *testing.T) {
	t.Parallel()

	raw := decodeConfig(t, `{
		"columns": [
			{"key": "firstName"},
			{"key": "total", "type": "currency", "accessor": "billing.total", "align": "right", "sortable": false}
		]
	}`)

	table, err := ParseTable(raw, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}

	want := TableConfig{
		Columns: []ColumnConfig{
			{Key: "firstName", Accessor: "firstName", Header: "First Name", Type: ColumnText, Sortable: true, Visible: true, Align: "left"},
			{Key: "total", Accessor: "billing.total", Header: "Total", Type: ColumnCurrency, Sortable: false, Visible: true, Align: "right"},
		},
		Pagination: PaginationConfig{Enabled: true, PageSize: DefaultPageSize},
		RowKey:     DefaultRowKey,
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTableSettings(t *testing.T) {
	t.Parallel()

	raw := decodeConfig(t, `{
		"columns": [
			{"key": "status", "hidden": true, "visible": true},
			{"key": "notes", "visible": false}
		],
		"pagination": {"enabled": false, "pageSize": 25},
		"selection": {"enabled": true, "multiple": true},
		"striped": true,
		"hoverable": true,
		"rowKey": "uuid",
		"defaultSort": {"column": "status", "direction": "DESC"}
	}`)

	table, err := ParseTable(raw, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}

	if table.Columns[0].Visible {
		t.Fatal("hidden:true should override visible:true")
	}
	if table.Columns[1].Visible {
		t.Fatal("visible:false should stick")
	}
	if table.Pagination.Enabled || table.Pagination.PageSize != 25 {
		t.Fatalf("pagination = %+v", table.Pagination)
	}
	if !table.Selection.Enabled || !table.Selection.Multiple {
		t.Fatalf("selection = %+v", table.Selection)
	}
	if !table.Striped || !table.Hoverable || table.Bordered {
		t.Fatal("display flags not applied")
	}
	if table.RowKey != "uuid" {
		t.Fatalf("rowKey = %q", table.RowKey)
	}
	if table.SortBy.Column != "status" || table.SortBy.Direction != "desc" {
		t.Fatalf("sortBy = %+v", table.SortBy)
	}
}

func TestParseTableErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{"missing columns", `{"pagination": {}}`, ErrNoColumns},
		{"empty columns", `{"columns": []}`, ErrNoColumns},
		{"column without key", `{"columns": [{"header": "Name"}]}`, nil},
		{"column not object", `{"columns": ["name"]}`, nil},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseTable(decodeConfig(t, tc.payload), DefaultOptions())
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseFormDefaults(t *testing.T) {
	t.Parallel()

	raw := decodeConfig(t, `{
		"title": "Contact Details",
		"sections": [
			{"title": "Basic Info", "fields": [
				{"name": "firstName"},
				{"name": "email", "type": "email", "required": true}
			]}
		]
	}`)

	form, err := ParseForm(raw, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	if form.ID != "contact-details" {
		t.Fatalf("form id = %q", form.ID)
	}
	if form.SubmitLabel != DefaultSubmitLabel || form.CancelLabel != DefaultCancelLabel {
		t.Fatalf("labels = %q/%q", form.SubmitLabel, form.CancelLabel)
	}
	if form.ValidationMode != ValidateOnSubmit {
		t.Fatalf("validationMode = %q", form.ValidationMode)
	}

	section := form.Sections[0]
	if section.ID != "basic-info" {
		t.Fatalf("section id = %q", section.ID)
	}
	if got := section.Fields[0]; got.Label != "First Name" || got.Type != FieldText || got.Required {
		t.Fatalf("field = %+v", got)
	}
	if got := section.Fields[1]; got.Type != FieldEmail || !got.Required {
		t.Fatalf("field = %+v", got)
	}
}

func TestParseFormErrors(t *testing.T) {
	t.Parallel()

	if _, err := ParseForm(decodeConfig(t, `{"title": "x"}`), DefaultOptions()); !errors.Is(err, ErrNoSections) {
		t.Fatalf("error = %v, want %v", err, ErrNoSections)
	}
	if _, err := ParseForm(decodeConfig(t, `{"sections": [{"fields": [{"type": "text"}]}]}`), DefaultOptions()); err == nil {
		t.Fatal("expected error for field without name")
	}
}

func TestParseFieldBounds(t *testing.T) {
	t.Parallel()

	raw := decodeConfig(t, `{
		"sections": [{"fields": [{
			"name": "age",
			"type": "number",
			"min": 18,
			"max": 120,
			"validation": [
				{"type": "max", "value": 99, "message": "too old"},
				{"type": "max", "value": 65},
				{"type": "required"}
			]
		}]}]
	}`)

	form, err := ParseForm(raw, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	// Declared rules keep their order; the min bound property folds into a
	// rule only because no min rule was declared.
	field := form.Sections[0].Fields[0]
	want := []ValidationRule{
		{Type: RuleMax, Value: float64(99), Message: "too old"},
		{Type: RuleMax, Value: float64(65)},
		{Type: RuleRequired},
		{Type: RuleMin, Value: float64(18)},
	}
	if diff := cmp.Diff(want, field.Validation); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKeywordRules(t *testing.T) {
	t.Parallel()

	raw := decodeConfig(t, `{
		"sections": [{"fields": [{
			"name": "username",
			"validation": [
				{"required": true},
				{"minLength": 3, "message": "too short"},
				{"min": 1, "max": 10},
				{"pattern": "^[a-z]+$"},
				{"required": false},
				{"note": "not a rule"}
			]
		}]}]
	}`)

	form, err := ParseForm(raw, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	// One rule object with several recognized keywords keeps only the first
	// match ({"min":1,"max":10} loses its max); required:false and unknown
	// keyword objects drop entirely.
	want := []ValidationRule{
		{Type: RuleRequired},
		{Type: RuleMinLength, Value: float64(3), Message: "too short"},
		{Type: RuleMin, Value: float64(1)},
		{Type: RulePattern, Value: "^[a-z]+$"},
	}
	if diff := cmp.Diff(want, form.Sections[0].Fields[0].Validation); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRequiredFoldsRule(t *testing.T) {
	t.Parallel()

	raw := decodeConfig(t, `{
		"sections": [{"fields": [
			{"name": "email", "required": true},
			{"name": "age", "required": true, "validation": [
				{"type": "min", "value": 18},
				{"type": "required", "message": "age is mandatory"}
			]}
		]}]
	}`)

	form, err := ParseForm(raw, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	// The bare property becomes a leading required rule; a declared required
	// rule keeps its place and message instead of being duplicated.
	want := []ValidationRule{{Type: RuleRequired}}
	if diff := cmp.Diff(want, form.Sections[0].Fields[0].Validation); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	want = []ValidationRule{
		{Type: RuleMin, Value: float64(18)},
		{Type: RuleRequired, Message: "age is mandatory"},
	}
	if diff := cmp.Diff(want, form.Sections[0].Fields[1].Validation); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFieldShowWhenAndComputed(t *testing.T) {
	t.Parallel()

	raw := decodeConfig(t, `{
		"sections": [{"fields": [
			{"name": "price", "type": "number"},
			{"name": "quantity", "type": "number"},
			{"name": "total", "type": "number", "computed": {
				"formula": "{price} * {quantity}",
				"deps": ["price", "quantity"]
			}},
			{"name": "reason", "showWhen": {"field": "total", "operator": "gt", "value": 100}}
		]}]
	}`)

	form, err := ParseForm(raw, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	total := form.Sections[0].Fields[2]
	if !total.IsComputed() || total.Editable() {
		t.Fatalf("computed field = %+v", total)
	}
	if diff := cmp.Diff([]string{"price", "quantity"}, total.Computed.Deps); diff != "" {
		t.Fatalf("deps mismatch (-want +got):\n%s", diff)
	}

	reason := form.Sections[0].Fields[3]
	if reason.ShowWhen == nil {
		t.Fatal("showWhen not parsed")
	}
	want := condition.Group{Field: "total", Operator: condition.OpGt, Value: float64(100)}
	if diff := cmp.Diff(want, *reason.ShowWhen); diff != "" {
		t.Fatalf("showWhen mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSelectOptions(t *testing.T) {
	t.Parallel()

	raw := decodeConfig(t, `{
		"sections": [{"fields": [{
			"name": "status",
			"type": "select",
			"options": ["draft", {"value": "live", "label": "Published"}, {"value": 3}]
		}]}]
	}`)

	form, err := ParseForm(raw, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	want := []SelectOption{
		{Value: "draft", Label: "draft"},
		{Value: "live", Label: "Published"},
		{Value: float64(3), Label: "3"},
	}
	if diff := cmp.Diff(want, form.Sections[0].Fields[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestParseModal(t *testing.T) {
	t.Parallel()

	raw := decodeConfig(t, `{
		"title": "Edit User",
		"form": {"sections": [{"fields": [{"name": "email", "type": "email"}]}]}
	}`)

	modal, err := ParseModal(raw, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseModal: %v", err)
	}
	if modal.ID != "edit-user" || modal.Size != DefaultModalSize {
		t.Fatalf("modal = %+v", modal)
	}
	if modal.ConfirmLabel != DefaultConfirmLabel || modal.CancelLabel != DefaultCancelLabel {
		t.Fatalf("labels = %q/%q", modal.ConfirmLabel, modal.CancelLabel)
	}
	if modal.Form == nil || len(modal.Form.Sections) != 1 {
		t.Fatalf("nested form = %+v", modal.Form)
	}
}

func TestParseAnyDispatch(t *testing.T) {
	t.Parallel()

	table, err := ParseAny(decodeConfig(t, `{"columns": [{"key": "id"}]}`), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseAny table: %v", err)
	}
	if _, ok := table.(TableConfig); !ok {
		t.Fatalf("got %T, want TableConfig", table)
	}

	form, err := ParseAny(decodeConfig(t, `{"sections": [{"fields": [{"name": "a"}]}]}`), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseAny form: %v", err)
	}
	if _, ok := form.(FormConfig); !ok {
		t.Fatalf("got %T, want FormConfig", form)
	}

	if _, err := ParseAny(decodeConfig(t, `{"title": "nothing"}`), DefaultOptions()); !errors.Is(err, ErrMissingDiscriminator) {
		t.Fatalf("error = %v, want %v", err, ErrMissingDiscriminator)
	}
}

func TestParsePassthroughKeepsUnknownKeys(t *testing.T) {
	t.Parallel()

	raw := decodeConfig(t, `{
		"columns": [{"key": "id", "meta": {"group": "core"}}],
		"analytics": {"track": true}
	}`)

	table, err := ParseTable(raw, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}

	if diff := cmp.Diff(map[string]any{"analytics": map[string]any{"track": true}}, table.Extra); diff != "" {
		t.Fatalf("table extras mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"meta": map[string]any{"group": "core"}}, table.Columns[0].Extra); diff != "" {
		t.Fatalf("column extras mismatch (-want +got):\n%s", diff)
	}

	// Extras are deep clones; mutating the source must not leak through.
	raw["analytics"].(map[string]any)["track"] = false
	if table.Extra["analytics"].(map[string]any)["track"] != true {
		t.Fatal("extra aliases the raw config")
	}
}

func TestParseIdempotent(t *testing.T) {
	t.Parallel()

	payloads := map[string]string{
		"table": `{
			"columns": [
				{"key": "name"},
				{"key": "total", "type": "currency", "align": "right", "badgeMap": {"a": 1}},
				{"key": "status", "hidden": true, "showWhen": {"field": "role", "operator": "eq", "value": "admin"}}
			],
			"pagination": {"pageSize": 25},
			"sortBy": {"column": "name"},
			"theme": "dense"
		}`,
		"form": `{
			"title": "Signup",
			"sections": [{
				"title": "Account",
				"fields": [
					{"name": "email", "type": "email", "required": true, "minLength": 5},
					{"name": "password", "type": "password", "validation": [{"type": "minLength", "value": 8}]},
					{"name": "confirm", "type": "password", "validation": [{"type": "match", "value": "password"}]},
					{"name": "plan", "type": "select", "options": ["free", "pro"], "tracking": "conversion"}
				]
			}]
		}`,
	}

	for name, payload := range payloads {
		name, payload := name, payload
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			first, err := ParseAny(decodeConfig(t, payload), DefaultOptions())
			if err != nil {
				t.Fatalf("first parse: %v", err)
			}

			encoded, err := json.Marshal(first)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			second, err := ParseAny(decodeConfig(t, string(encoded)), DefaultOptions())
			if err != nil {
				t.Fatalf("second parse: %v", err)
			}

			if diff := cmp.Diff(first, second); diff != "" {
				t.Fatalf("reparse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseWithRegistry(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.RegisterField("dueDate", func(field *FieldConfig) {
		field.Placeholder = "YYYY-MM-DD"
	})
	registry.RegisterColumn("actions", func(column *ColumnConfig) {
		column.Sortable = false
		column.Align = "center"
	})

	opts := DefaultOptions()
	opts.Registry = registry

	form, err := ParseForm(decodeConfig(t, `{"sections": [{"fields": [{"name": "dueDate", "type": "date"}]}]}`), opts)
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	if got := form.Sections[0].Fields[0].Placeholder; got != "YYYY-MM-DD" {
		t.Fatalf("placeholder = %q", got)
	}

	table, err := ParseTable(decodeConfig(t, `{"columns": [{"key": "actions", "type": "actions"}]}`), opts)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if column := table.Columns[0]; column.Sortable || column.Align != "center" {
		t.Fatalf("column = %+v", column)
	}
}
