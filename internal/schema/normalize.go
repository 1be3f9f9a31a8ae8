package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-crudkit/pkg/condition"
)

// Defaults applied during normalization.
const (
	DefaultPageSize     = 10
	DefaultRowKey       = "id"
	DefaultAlign        = "left"
	DefaultSubmitLabel  = "Submit"
	DefaultCancelLabel  = "Cancel"
	DefaultConfirmLabel = "Confirm"
	DefaultModalSize    = "md"
	DefaultSectionID    = "section"
)

var (
	// ErrMissingDiscriminator is returned when a raw config declares neither
	// a table ("columns") nor a form ("sections") shape.
	ErrMissingDiscriminator = errors.New(`schema: config must declare "columns" (table) or "sections" (form)`)
	// ErrNoColumns is returned for table configs without a non-empty columns array.
	ErrNoColumns = errors.New("schema: table config requires a non-empty columns array")
	// ErrNoSections is returned for form configs without a non-empty sections array.
	ErrNoSections = errors.New("schema: form config requires a non-empty sections array")
)

// Key allow-lists. Raw keys outside these sets pass through into Extra,
// deep-cloned, so applications can attach arbitrary extension data without
// the parser losing it.
var (
	knownFieldKeys = keySet("name", "type", "label", "placeholder", "helpText",
		"required", "disabled", "readOnly", "defaultValue", "options", "entityType",
		"min", "max", "minLength", "maxLength", "validation", "showWhen", "computed")

	knownColumnKeys = keySet("key", "accessor", "header", "type", "width",
		"minWidth", "maxWidth", "sortable", "filterable", "visible", "hidden",
		"align", "showWhen")

	knownSectionKeys = keySet("id", "title", "description", "collapsible",
		"defaultCollapsed", "columns", "fields", "showWhen")

	knownTableKeys = keySet("columns", "pagination", "selection", "filters",
		"striped", "bordered", "compact", "hoverable", "rowKey", "sortBy", "defaultSort")

	knownFormKeys = keySet("id", "title", "sections", "submitLabel",
		"cancelLabel", "validationMode")

	knownModalKeys = keySet("id", "title", "size", "confirmLabel",
		"cancelLabel", "form")
)

func keySet(keys ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		out[key] = struct{}{}
	}
	return out
}

// ParseAny dispatches on the raw config's top-level discriminator: a
// "columns" key parses as a table, a "sections" key as a form. Absence of
// both is an unrecoverable config error.
func ParseAny(raw map[string]any, opts Options) (any, error) {
	if raw == nil {
		return nil, ErrMissingDiscriminator
	}
	if _, ok := raw["columns"]; ok {
		return ParseTable(raw, opts)
	}
	if _, ok := raw["sections"]; ok {
		return ParseForm(raw, opts)
	}
	return nil, ErrMissingDiscriminator
}

// ParseTable normalizes a raw table config into the canonical schema.
// Normalization is idempotent: feeding the marshaled result back through
// yields an equal config.
func ParseTable(raw map[string]any, opts Options) (TableConfig, error) {
	rawColumns, ok := asSlice(raw["columns"])
	if !ok || len(rawColumns) == 0 {
		return TableConfig{}, ErrNoColumns
	}

	table := TableConfig{
		Columns: make([]ColumnConfig, 0, len(rawColumns)),
		RowKey:  DefaultRowKey,
		Pagination: PaginationConfig{
			Enabled:  true,
			PageSize: DefaultPageSize,
		},
	}

	for idx, entry := range rawColumns {
		rawColumn, ok := asMap(entry)
		if !ok {
			return TableConfig{}, fmt.Errorf("schema: columns[%d] is not an object", idx)
		}
		column, err := normalizeColumn(rawColumn, opts)
		if err != nil {
			return TableConfig{}, fmt.Errorf("schema: columns[%d]: %w", idx, err)
		}
		table.Columns = append(table.Columns, column)
	}

	if rawPagination, ok := asMap(raw["pagination"]); ok {
		table.Pagination.Enabled = boolOr(rawPagination["enabled"], true)
		if size, ok := asInt(rawPagination["pageSize"]); ok && size > 0 {
			table.Pagination.PageSize = size
		}
	}

	if rawSelection, ok := asMap(raw["selection"]); ok {
		table.Selection.Enabled = boolOr(rawSelection["enabled"], false)
		table.Selection.Multiple = boolOr(rawSelection["multiple"], false)
	}

	if rawFilters, ok := asSlice(raw["filters"]); ok {
		for _, entry := range rawFilters {
			if group := parseCondition(entry); group != nil {
				table.Filters = append(table.Filters, *group)
			}
		}
	}

	table.Striped = boolOr(raw["striped"], false)
	table.Bordered = boolOr(raw["bordered"], false)
	table.Compact = boolOr(raw["compact"], false)
	table.Hoverable = boolOr(raw["hoverable"], false)

	if rowKey := strings.TrimSpace(asString(raw["rowKey"])); rowKey != "" {
		table.RowKey = rowKey
	}

	sortRaw := raw["sortBy"]
	if sortRaw == nil {
		sortRaw = raw["defaultSort"]
	}
	if rawSort, ok := asMap(sortRaw); ok {
		if column := strings.TrimSpace(asString(rawSort["column"])); column != "" {
			table.SortBy.Column = column
			table.SortBy.Direction = normalizeDirection(asString(rawSort["direction"]))
		}
	}

	table.Extra = passthrough(raw, knownTableKeys)
	return table, nil
}

// ParseForm normalizes a raw form config into the canonical schema.
func ParseForm(raw map[string]any, opts Options) (FormConfig, error) {
	rawSections, ok := asSlice(raw["sections"])
	if !ok || len(rawSections) == 0 {
		return FormConfig{}, ErrNoSections
	}

	form := FormConfig{
		Title:          strings.TrimSpace(asString(raw["title"])),
		SubmitLabel:    DefaultSubmitLabel,
		CancelLabel:    DefaultCancelLabel,
		ValidationMode: ValidateOnSubmit,
	}

	form.ID = strings.TrimSpace(asString(raw["id"]))
	if form.ID == "" {
		if slug := Slugify(form.Title); slug != "" {
			form.ID = slug
		} else {
			form.ID = "form"
		}
	}

	for idx, entry := range rawSections {
		rawSection, ok := asMap(entry)
		if !ok {
			return FormConfig{}, fmt.Errorf("schema: sections[%d] is not an object", idx)
		}
		section, err := normalizeSection(rawSection, opts)
		if err != nil {
			return FormConfig{}, fmt.Errorf("schema: sections[%d]: %w", idx, err)
		}
		form.Sections = append(form.Sections, section)
	}

	if label := strings.TrimSpace(asString(raw["submitLabel"])); label != "" {
		form.SubmitLabel = label
	}
	if label := strings.TrimSpace(asString(raw["cancelLabel"])); label != "" {
		form.CancelLabel = label
	}
	switch mode := ValidationMode(strings.TrimSpace(asString(raw["validationMode"]))); mode {
	case ValidateOnBlur, ValidateOnChange, ValidateOnSubmit:
		form.ValidationMode = mode
	}

	form.Extra = passthrough(raw, knownFormKeys)
	return form, nil
}

// ParseModal normalizes a modal config; the nested form, when present, flows
// through ParseForm.
func ParseModal(raw map[string]any, opts Options) (ModalConfig, error) {
	if raw == nil {
		return ModalConfig{}, errors.New("schema: modal config is nil")
	}

	modal := ModalConfig{
		ID:           strings.TrimSpace(asString(raw["id"])),
		Title:        strings.TrimSpace(asString(raw["title"])),
		Size:         DefaultModalSize,
		ConfirmLabel: DefaultConfirmLabel,
		CancelLabel:  DefaultCancelLabel,
	}
	if modal.ID == "" {
		if slug := Slugify(modal.Title); slug != "" {
			modal.ID = slug
		} else {
			modal.ID = "modal"
		}
	}
	if size := strings.TrimSpace(asString(raw["size"])); size != "" {
		modal.Size = size
	}
	if label := strings.TrimSpace(asString(raw["confirmLabel"])); label != "" {
		modal.ConfirmLabel = label
	}
	if label := strings.TrimSpace(asString(raw["cancelLabel"])); label != "" {
		modal.CancelLabel = label
	}

	if rawForm, ok := asMap(raw["form"]); ok {
		form, err := ParseForm(rawForm, opts)
		if err != nil {
			return ModalConfig{}, fmt.Errorf("schema: modal form: %w", err)
		}
		modal.Form = &form
	}

	modal.Extra = passthrough(raw, knownModalKeys)
	return modal, nil
}

func normalizeSection(raw map[string]any, opts Options) (FormSection, error) {
	section := FormSection{
		Title:       strings.TrimSpace(asString(raw["title"])),
		Description: opts.sanitize(strings.TrimSpace(asString(raw["description"]))),
		Collapsible: boolOr(raw["collapsible"], false),
		ShowWhen:    parseCondition(raw["showWhen"]),
	}
	section.DefaultCollapsed = boolOr(raw["defaultCollapsed"], false)
	if columns, ok := asInt(raw["columns"]); ok && columns > 0 {
		section.Columns = columns
	}

	section.ID = strings.TrimSpace(asString(raw["id"]))
	if section.ID == "" {
		if slug := Slugify(section.Title); slug != "" {
			section.ID = slug
		} else {
			section.ID = DefaultSectionID
		}
	}

	if rawFields, ok := asSlice(raw["fields"]); ok {
		section.Fields = make([]FieldConfig, 0, len(rawFields))
		for idx, entry := range rawFields {
			rawField, ok := asMap(entry)
			if !ok {
				return FormSection{}, fmt.Errorf("fields[%d] is not an object", idx)
			}
			field, err := normalizeField(rawField, opts)
			if err != nil {
				return FormSection{}, fmt.Errorf("fields[%d]: %w", idx, err)
			}
			section.Fields = append(section.Fields, field)
		}
	}

	section.Extra = passthrough(raw, knownSectionKeys)
	return section, nil
}

func normalizeField(raw map[string]any, opts Options) (FieldConfig, error) {
	name := opts.fieldName(strings.TrimSpace(asString(raw["name"])))
	if name == "" {
		return FieldConfig{}, errors.New("field missing name")
	}

	field := FieldConfig{
		Name:        name,
		Type:        FieldType(strings.TrimSpace(asString(raw["type"]))),
		Placeholder: strings.TrimSpace(asString(raw["placeholder"])),
		HelpText:    opts.sanitize(strings.TrimSpace(asString(raw["helpText"]))),
		Required:    boolOr(raw["required"], opts.DefaultRequired),
		Disabled:    boolOr(raw["disabled"], false),
		ReadOnly:    boolOr(raw["readOnly"], false),
		EntityType:  strings.TrimSpace(asString(raw["entityType"])),
		ShowWhen:    parseCondition(raw["showWhen"]),
	}
	if field.Type == "" {
		field.Type = FieldText
	}

	field.Label = opts.sanitize(strings.TrimSpace(asString(raw["label"])))
	if field.Label == "" && opts.GenerateLabels {
		field.Label = Humanize(name)
	}

	if value, ok := raw["defaultValue"]; ok {
		field.DefaultValue = DeepClone(value)
	}

	if rawOptions, ok := asSlice(raw["options"]); ok {
		field.Options = normalizeSelectOptions(rawOptions)
	}

	if value, ok := asFloat(raw["min"]); ok {
		field.Min = &value
	}
	if value, ok := asFloat(raw["max"]); ok {
		field.Max = &value
	}
	if value, ok := asInt(raw["minLength"]); ok {
		field.MinLength = &value
	}
	if value, ok := asInt(raw["maxLength"]); ok {
		field.MaxLength = &value
	}

	if rawRules, ok := asSlice(raw["validation"]); ok {
		for _, entry := range rawRules {
			ruleMap, ok := asMap(entry)
			if !ok {
				continue
			}
			if rule, ok := normalizeRule(ruleMap); ok {
				field.Validation = append(field.Validation, rule)
			}
		}
	}
	foldBoundRules(&field)

	if rawComputed, ok := asMap(raw["computed"]); ok {
		computed := Computed{
			Formula: strings.TrimSpace(asString(rawComputed["formula"])),
		}
		if deps, ok := asSlice(rawComputed["deps"]); ok {
			for _, dep := range deps {
				if name := strings.TrimSpace(asString(dep)); name != "" {
					computed.Deps = append(computed.Deps, name)
				}
			}
		}
		field.Computed = &computed
	}

	field.Extra = passthrough(raw, knownFieldKeys)

	if opts.Registry != nil {
		opts.Registry.applyField(&field)
	}
	return field, nil
}

func normalizeColumn(raw map[string]any, opts Options) (ColumnConfig, error) {
	key := opts.columnKey(strings.TrimSpace(asString(raw["key"])))
	if key == "" {
		return ColumnConfig{}, errors.New("column missing key")
	}

	column := ColumnConfig{
		Key:        key,
		Accessor:   strings.TrimSpace(asString(raw["accessor"])),
		Type:       ColumnType(strings.TrimSpace(asString(raw["type"]))),
		Width:      strings.TrimSpace(asString(raw["width"])),
		MinWidth:   strings.TrimSpace(asString(raw["minWidth"])),
		MaxWidth:   strings.TrimSpace(asString(raw["maxWidth"])),
		Sortable:   boolOr(raw["sortable"], opts.DefaultSortable),
		Filterable: boolOr(raw["filterable"], false),
		Align:      DefaultAlign,
		ShowWhen:   parseCondition(raw["showWhen"]),
	}
	if column.Accessor == "" {
		column.Accessor = key
	}
	if column.Type == "" {
		column.Type = ColumnText
	}
	if column.Width == "" {
		column.Width = opts.DefaultColumnWidth
	}

	column.Header = opts.sanitize(strings.TrimSpace(asString(raw["header"])))
	if column.Header == "" && opts.GenerateLabels {
		column.Header = Humanize(key)
	}

	// hidden:true always wins over visible.
	column.Visible = boolOr(raw["visible"], true)
	if boolOr(raw["hidden"], false) {
		column.Visible = false
	}

	switch align := strings.TrimSpace(asString(raw["align"])); align {
	case "left", "center", "right":
		column.Align = align
	}

	column.Extra = passthrough(raw, knownColumnKeys)

	if opts.Registry != nil {
		opts.Registry.applyColumn(&column)
	}
	return column, nil
}

func normalizeSelectOptions(raw []any) []SelectOption {
	out := make([]SelectOption, 0, len(raw))
	for _, entry := range raw {
		if optMap, ok := asMap(entry); ok {
			option := SelectOption{
				Value:    DeepClone(optMap["value"]),
				Label:    strings.TrimSpace(asString(optMap["label"])),
				Disabled: boolOr(optMap["disabled"], false),
			}
			if option.Label == "" {
				option.Label = asString(optMap["value"])
			}
			out = append(out, option)
			continue
		}
		// Scalar shorthand: the value doubles as its label.
		out = append(out, SelectOption{Value: entry, Label: asString(entry)})
	}
	return out
}

// foldBoundRules mirrors the required/min/max/minLength/maxLength field
// properties into the validation rule list so the runtime engine has a single
// place to look. Existing rules of the same type win, which also keeps
// re-parsing a normalized config from duplicating them.
func foldBoundRules(field *FieldConfig) {
	has := func(t RuleType) bool {
		for _, rule := range field.Validation {
			if rule.Type == t {
				return true
			}
		}
		return false
	}

	// Required leads so an empty value fails with the required message
	// before any bound rule gets a say.
	if field.Required && !has(RuleRequired) {
		field.Validation = append([]ValidationRule{{Type: RuleRequired}}, field.Validation...)
	}
	if field.Min != nil && !has(RuleMin) {
		field.Validation = append(field.Validation, ValidationRule{Type: RuleMin, Value: *field.Min})
	}
	if field.Max != nil && !has(RuleMax) {
		field.Validation = append(field.Validation, ValidationRule{Type: RuleMax, Value: *field.Max})
	}
	if field.MinLength != nil && !has(RuleMinLength) {
		field.Validation = append(field.Validation, ValidationRule{Type: RuleMinLength, Value: float64(*field.MinLength)})
	}
	if field.MaxLength != nil && !has(RuleMaxLength) {
		field.Validation = append(field.Validation, ValidationRule{Type: RuleMaxLength, Value: float64(*field.MaxLength)})
	}
}

func parseCondition(value any) *condition.Group {
	rawMap, ok := asMap(value)
	if !ok {
		return nil
	}
	payload, err := json.Marshal(rawMap)
	if err != nil {
		return nil
	}
	var group condition.Group
	if err := json.Unmarshal(payload, &group); err != nil {
		return nil
	}
	if group.IsZero() {
		return nil
	}
	return &group
}

func passthrough(raw map[string]any, known map[string]struct{}) map[string]any {
	var extra map[string]any
	for key, value := range raw {
		if _, ok := known[key]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[key] = DeepClone(value)
	}
	return extra
}

func normalizeDirection(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "desc", "descending":
		return "desc"
	default:
		return "asc"
	}
}

func asMap(value any) (map[string]any, bool) {
	m, ok := value.(map[string]any)
	return m, ok && m != nil
}

func asSlice(value any) ([]any, bool) {
	s, ok := value.([]any)
	return s, ok
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asInt(value any) (int, bool) {
	f, ok := asFloat(value)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func boolOr(value any, fallback bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}
