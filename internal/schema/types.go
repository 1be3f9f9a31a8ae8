package schema

import (
	"github.com/goliatone/go-crudkit/pkg/condition"
	"github.com/goliatone/go-crudkit/pkg/dotpath"
)

// FieldType is the closed enumeration of form input kinds. Unknown strings
// survive parsing (the validator downgrades them to warnings) but only the
// listed values receive type-specific normalization.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldNumber      FieldType = "number"
	FieldEmail       FieldType = "email"
	FieldPassword    FieldType = "password"
	FieldTel         FieldType = "tel"
	FieldURL         FieldType = "url"
	FieldTextarea    FieldType = "textarea"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multiselect"
	FieldCheckbox    FieldType = "checkbox"
	FieldRadio       FieldType = "radio"
	FieldSwitch      FieldType = "switch"
	FieldDate        FieldType = "date"
	FieldDateTime    FieldType = "datetime"
	FieldTime        FieldType = "time"
	FieldFile        FieldType = "file"
	FieldImage       FieldType = "image"
	FieldCurrency    FieldType = "currency"
	FieldPercent     FieldType = "percent"
	FieldHidden      FieldType = "hidden"
	FieldEntity      FieldType = "entity"
	FieldGeneric     FieldType = "generic"
)

var knownFieldTypes = map[FieldType]struct{}{
	FieldText: {}, FieldNumber: {}, FieldEmail: {}, FieldPassword: {},
	FieldTel: {}, FieldURL: {}, FieldTextarea: {}, FieldSelect: {},
	FieldMultiSelect: {}, FieldCheckbox: {}, FieldRadio: {}, FieldSwitch: {},
	FieldDate: {}, FieldDateTime: {}, FieldTime: {}, FieldFile: {},
	FieldImage: {}, FieldCurrency: {}, FieldPercent: {}, FieldHidden: {},
	FieldEntity: {}, FieldGeneric: {},
}

// Known reports whether the field type belongs to the closed enumeration.
func (t FieldType) Known() bool {
	_, ok := knownFieldTypes[t]
	return ok
}

// RequiresOptions reports whether the field type needs an options list (or an
// entity type) to render at all.
func (t FieldType) RequiresOptions() bool {
	switch t {
	case FieldSelect, FieldMultiSelect, FieldRadio:
		return true
	default:
		return false
	}
}

// ColumnType enumerates the table column renderings.
type ColumnType string

const (
	ColumnText     ColumnType = "text"
	ColumnNumber   ColumnType = "number"
	ColumnCurrency ColumnType = "currency"
	ColumnPercent  ColumnType = "percent"
	ColumnDate     ColumnType = "date"
	ColumnDateTime ColumnType = "datetime"
	ColumnBoolean  ColumnType = "boolean"
	ColumnBadge    ColumnType = "badge"
	ColumnLink     ColumnType = "link"
	ColumnImage    ColumnType = "image"
	ColumnActions  ColumnType = "actions"
	ColumnCustom   ColumnType = "custom"
)

var knownColumnTypes = map[ColumnType]struct{}{
	ColumnText: {}, ColumnNumber: {}, ColumnCurrency: {}, ColumnPercent: {},
	ColumnDate: {}, ColumnDateTime: {}, ColumnBoolean: {}, ColumnBadge: {},
	ColumnLink: {}, ColumnImage: {}, ColumnActions: {}, ColumnCustom: {},
}

// Known reports whether the column type belongs to the closed enumeration.
func (t ColumnType) Known() bool {
	_, ok := knownColumnTypes[t]
	return ok
}

// RuleType identifies one validation rule kind. The parser collapses each raw
// rule object to exactly one of these.
type RuleType string

const (
	RuleRequired  RuleType = "required"
	RuleMin       RuleType = "min"
	RuleMax       RuleType = "max"
	RuleMinLength RuleType = "minLength"
	RuleMaxLength RuleType = "maxLength"
	RulePattern   RuleType = "pattern"
	RuleEmail     RuleType = "email"
	RuleURL       RuleType = "url"
	RuleMatch     RuleType = "match"
	RuleCustom    RuleType = "custom"
)

// CustomRule is a caller-supplied validator. It can only be attached in code;
// a "custom" key in a JSON config is flagged as a warning by the config
// validator because a serialized function cannot execute.
type CustomRule func(value any, formData map[string]any) error

// ValidationRule is the canonical single-kind rule shape. Value carries the
// bound (min/max/length), pattern source, or match target depending on Type.
type ValidationRule struct {
	Type    RuleType `json:"type"`
	Value   any      `json:"value,omitempty"`
	Message string   `json:"message,omitempty"`

	Custom CustomRule `json:"-"`
}

// Computed derives a field value from other fields through an arithmetic
// formula. Computed fields are always read-only at render time.
type Computed struct {
	Formula string   `json:"formula"`
	Deps    []string `json:"deps"`
}

// SelectOption is one entry of a select/multiselect/radio option list.
type SelectOption struct {
	Value    any    `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// FieldConfig describes a single form input. Instances are produced by the
// parser and treated as immutable afterwards; Extra holds unknown raw keys,
// deep-cloned so no mutable state is shared with the source document.
type FieldConfig struct {
	Name         string           `json:"name"`
	Type         FieldType        `json:"type"`
	Label        string           `json:"label,omitempty"`
	Placeholder  string           `json:"placeholder,omitempty"`
	HelpText     string           `json:"helpText,omitempty"`
	Required     bool             `json:"required,omitempty"`
	Disabled     bool             `json:"disabled,omitempty"`
	ReadOnly     bool             `json:"readOnly,omitempty"`
	DefaultValue any              `json:"defaultValue,omitempty"`
	Options      []SelectOption   `json:"options,omitempty"`
	EntityType   string           `json:"entityType,omitempty"`
	Min          *float64         `json:"min,omitempty"`
	Max          *float64         `json:"max,omitempty"`
	MinLength    *int             `json:"minLength,omitempty"`
	MaxLength    *int             `json:"maxLength,omitempty"`
	Validation   []ValidationRule `json:"validation,omitempty"`
	ShowWhen     *condition.Group `json:"showWhen,omitempty"`
	Computed     *Computed        `json:"computed,omitempty"`

	Extra map[string]any `json:"-"`
}

// IsComputed reports whether the field derives its value from a formula.
func (f FieldConfig) IsComputed() bool {
	return f.Computed != nil && f.Computed.Formula != ""
}

// Editable reports whether user input may change the field. Computed fields
// are never editable regardless of ReadOnly.
func (f FieldConfig) Editable() bool {
	return !f.Disabled && !f.ReadOnly && !f.IsComputed()
}

// FormatFunc turns a cell value into display text. Attached in code by the
// render layer; opaque to parsing and validation.
type FormatFunc func(value any, row map[string]any) string

// ColumnConfig describes one table column.
type ColumnConfig struct {
	Key        string           `json:"key"`
	Accessor   string           `json:"accessor,omitempty"`
	Header     string           `json:"header,omitempty"`
	Type       ColumnType       `json:"type"`
	Width      string           `json:"width,omitempty"`
	MinWidth   string           `json:"minWidth,omitempty"`
	MaxWidth   string           `json:"maxWidth,omitempty"`
	Sortable   bool             `json:"sortable"`
	Filterable bool             `json:"filterable,omitempty"`
	Visible    bool             `json:"visible"`
	Align      string           `json:"align"`
	ShowWhen   *condition.Group `json:"showWhen,omitempty"`

	Format FormatFunc     `json:"-"`
	Extra  map[string]any `json:"-"`
}

// FormSection groups fields inside a form.
type FormSection struct {
	ID               string           `json:"id"`
	Title            string           `json:"title,omitempty"`
	Description      string           `json:"description,omitempty"`
	Collapsible      bool             `json:"collapsible,omitempty"`
	DefaultCollapsed bool             `json:"defaultCollapsed,omitempty"`
	Columns          int              `json:"columns,omitempty"`
	Fields           []FieldConfig    `json:"fields"`
	ShowWhen         *condition.Group `json:"showWhen,omitempty"`

	Extra map[string]any `json:"-"`
}

// PaginationConfig controls table paging.
type PaginationConfig struct {
	Enabled  bool `json:"enabled"`
	PageSize int  `json:"pageSize"`
}

// SelectionConfig controls row selection.
type SelectionConfig struct {
	Enabled  bool `json:"enabled,omitempty"`
	Multiple bool `json:"multiple,omitempty"`
}

// SortConfig names the default sort column and direction ("asc"/"desc").
type SortConfig struct {
	Column    string `json:"column,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// TableConfig is the canonical table schema.
type TableConfig struct {
	Columns    []ColumnConfig    `json:"columns"`
	Pagination PaginationConfig  `json:"pagination"`
	Selection  SelectionConfig   `json:"selection,omitempty"`
	Filters    []condition.Group `json:"filters,omitempty"`
	Striped    bool              `json:"striped,omitempty"`
	Bordered   bool              `json:"bordered,omitempty"`
	Compact    bool              `json:"compact,omitempty"`
	Hoverable  bool              `json:"hoverable,omitempty"`
	RowKey     string            `json:"rowKey"`
	SortBy     SortConfig        `json:"sortBy,omitempty"`

	RowKeyFunc dotpath.KeyFunc `json:"-"`
	Extra      map[string]any  `json:"-"`
}

// ValidationMode controls when a renderer triggers the validation engine.
type ValidationMode string

const (
	ValidateOnBlur   ValidationMode = "onBlur"
	ValidateOnChange ValidationMode = "onChange"
	ValidateOnSubmit ValidationMode = "onSubmit"
)

// FormConfig is the canonical form schema.
type FormConfig struct {
	ID             string         `json:"id"`
	Title          string         `json:"title,omitempty"`
	Sections       []FormSection  `json:"sections"`
	SubmitLabel    string         `json:"submitLabel"`
	CancelLabel    string         `json:"cancelLabel"`
	ValidationMode ValidationMode `json:"validationMode"`

	Extra map[string]any `json:"-"`
}

// Fields flattens the form's sections in declaration order.
func (f FormConfig) Fields() []FieldConfig {
	var out []FieldConfig
	for _, section := range f.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// FieldByName returns the first field with the given name.
func (f FormConfig) FieldByName(name string) (FieldConfig, bool) {
	for _, section := range f.Sections {
		for _, field := range section.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return FieldConfig{}, false
}

// ModalConfig wraps a form for dialog-based editing flows.
type ModalConfig struct {
	ID           string      `json:"id"`
	Title        string      `json:"title,omitempty"`
	Size         string      `json:"size"`
	ConfirmLabel string      `json:"confirmLabel"`
	CancelLabel  string      `json:"cancelLabel"`
	Form         *FormConfig `json:"form,omitempty"`

	Extra map[string]any `json:"-"`
}
