package schema

import (
	"encoding/json"
	"fmt"

	engine "github.com/goliatone/go-crudkit/internal/schema"
)

// Canonical config types, re-exported from the parsing engine.
type (
	FieldType      = engine.FieldType
	ColumnType     = engine.ColumnType
	RuleType       = engine.RuleType
	CustomRule     = engine.CustomRule
	ValidationRule = engine.ValidationRule
	Computed       = engine.Computed
	SelectOption   = engine.SelectOption
	FieldConfig    = engine.FieldConfig
	FormatFunc     = engine.FormatFunc
	ColumnConfig   = engine.ColumnConfig
	FormSection    = engine.FormSection
	FormConfig     = engine.FormConfig
	TableConfig    = engine.TableConfig
	ModalConfig    = engine.ModalConfig

	PaginationConfig = engine.PaginationConfig
	SelectionConfig  = engine.SelectionConfig
	SortConfig       = engine.SortConfig
	ValidationMode   = engine.ValidationMode

	Severity = engine.Severity
	Finding  = engine.Finding
	Result   = engine.Result

	Registry         = engine.Registry
	FieldNormalizer  = engine.FieldNormalizer
	ColumnNormalizer = engine.ColumnNormalizer
)

const (
	FieldText        = engine.FieldText
	FieldNumber      = engine.FieldNumber
	FieldEmail       = engine.FieldEmail
	FieldPassword    = engine.FieldPassword
	FieldTel         = engine.FieldTel
	FieldURL         = engine.FieldURL
	FieldTextarea    = engine.FieldTextarea
	FieldSelect      = engine.FieldSelect
	FieldMultiSelect = engine.FieldMultiSelect
	FieldCheckbox    = engine.FieldCheckbox
	FieldRadio       = engine.FieldRadio
	FieldSwitch      = engine.FieldSwitch
	FieldDate        = engine.FieldDate
	FieldDateTime    = engine.FieldDateTime
	FieldTime        = engine.FieldTime
	FieldFile        = engine.FieldFile
	FieldImage       = engine.FieldImage
	FieldCurrency    = engine.FieldCurrency
	FieldPercent     = engine.FieldPercent
	FieldHidden      = engine.FieldHidden
	FieldEntity      = engine.FieldEntity
	FieldGeneric     = engine.FieldGeneric

	ColumnText     = engine.ColumnText
	ColumnNumber   = engine.ColumnNumber
	ColumnCurrency = engine.ColumnCurrency
	ColumnPercent  = engine.ColumnPercent
	ColumnDate     = engine.ColumnDate
	ColumnDateTime = engine.ColumnDateTime
	ColumnBoolean  = engine.ColumnBoolean
	ColumnBadge    = engine.ColumnBadge
	ColumnLink     = engine.ColumnLink
	ColumnImage    = engine.ColumnImage
	ColumnActions  = engine.ColumnActions
	ColumnCustom   = engine.ColumnCustom

	RuleRequired  = engine.RuleRequired
	RuleMin       = engine.RuleMin
	RuleMax       = engine.RuleMax
	RuleMinLength = engine.RuleMinLength
	RuleMaxLength = engine.RuleMaxLength
	RulePattern   = engine.RulePattern
	RuleEmail     = engine.RuleEmail
	RuleURL       = engine.RuleURL
	RuleMatch     = engine.RuleMatch
	RuleCustom    = engine.RuleCustom

	ValidateOnBlur   = engine.ValidateOnBlur
	ValidateOnChange = engine.ValidateOnChange
	ValidateOnSubmit = engine.ValidateOnSubmit

	SeverityError   = engine.SeverityError
	SeverityWarning = engine.SeverityWarning
)

var (
	ErrMissingDiscriminator = engine.ErrMissingDiscriminator
	ErrNoColumns            = engine.ErrNoColumns
	ErrNoSections           = engine.ErrNoSections
)

// NewRegistry creates an empty normalizer registry for attaching code-only
// behavior (custom rules, formatters, defaults) to named fields and columns.
func NewRegistry() *Registry {
	return engine.NewRegistry()
}

// Option adjusts parser behavior.
type Option func(*engine.Options)

// WithGenerateLabels toggles deriving labels and headers from key names.
func WithGenerateLabels(enabled bool) Option {
	return func(o *engine.Options) { o.GenerateLabels = enabled }
}

// WithDefaultRequired marks fields required unless the config says otherwise.
func WithDefaultRequired(required bool) Option {
	return func(o *engine.Options) { o.DefaultRequired = required }
}

// WithDefaultColumnWidth applies a width to columns that declare none.
func WithDefaultColumnWidth(width string) Option {
	return func(o *engine.Options) { o.DefaultColumnWidth = width }
}

// WithDefaultSortable controls whether columns sort unless told otherwise.
func WithDefaultSortable(sortable bool) Option {
	return func(o *engine.Options) { o.DefaultSortable = sortable }
}

// WithFieldNameTransform rewrites raw field names before normalization.
func WithFieldNameTransform(fn func(string) string) Option {
	return func(o *engine.Options) { o.TransformFieldName = fn }
}

// WithColumnKeyTransform rewrites raw column keys before normalization.
func WithColumnKeyTransform(fn func(string) string) Option {
	return func(o *engine.Options) { o.TransformColumnKey = fn }
}

// WithRegistry applies registered per-name normalizers after defaulting.
func WithRegistry(registry *Registry) Option {
	return func(o *engine.Options) { o.Registry = registry }
}

// WithRichTextSanitizer runs every label, header, help text, and section
// description through the given sanitizer.
func WithRichTextSanitizer(fn func(string) string) Option {
	return func(o *engine.Options) { o.SanitizeRichText = fn }
}

// WithSanitizedRichText enables the built-in HTML sanitizer, which keeps a
// small inline-formatting allow-list and strips everything else.
func WithSanitizedRichText() Option {
	return WithRichTextSanitizer(SanitizeRichText)
}

func buildOptions(opts []Option) engine.Options {
	options := engine.DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// ParseTableConfig normalizes a raw table config document.
func ParseTableConfig(raw map[string]any, opts ...Option) (TableConfig, error) {
	return engine.ParseTable(raw, buildOptions(opts))
}

// ParseFormConfig normalizes a raw form config document.
func ParseFormConfig(raw map[string]any, opts ...Option) (FormConfig, error) {
	return engine.ParseForm(raw, buildOptions(opts))
}

// ParseModalConfig normalizes a raw modal config document.
func ParseModalConfig(raw map[string]any, opts ...Option) (ModalConfig, error) {
	return engine.ParseModal(raw, buildOptions(opts))
}

// ParseConfig dispatches on the document shape: "columns" yields a
// TableConfig, "sections" a FormConfig.
func ParseConfig(raw map[string]any, opts ...Option) (any, error) {
	return engine.ParseAny(raw, buildOptions(opts))
}

// ParseJSON decodes a JSON document and parses it with ParseConfig.
func ParseJSON(payload []byte, opts ...Option) (any, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("schema: decode config: %w", err)
	}
	return ParseConfig(raw, opts...)
}

// ValidateConfig reports structural problems in a config. It accepts both
// parsed configs and raw map[string]any documents; raw documents are checked
// leniently, so a missing field name or column key surfaces as an error
// finding rather than a parse failure.
func ValidateConfig(cfg any) Result {
	return engine.ValidateAny(cfg)
}

// InvalidConfigError carries the full validation result when AssertValid
// rejects a config.
type InvalidConfigError struct {
	Result Result
}

func (e *InvalidConfigError) Error() string {
	if len(e.Result.Errors) == 0 {
		return "schema: invalid config"
	}
	first := e.Result.Errors[0]
	if len(e.Result.Errors) == 1 {
		return fmt.Sprintf("schema: invalid config: %s: %s", first.Path, first.Message)
	}
	return fmt.Sprintf("schema: invalid config: %s: %s (and %d more)", first.Path, first.Message, len(e.Result.Errors)-1)
}

// AssertValid validates a parsed config and converts failures into an error.
func AssertValid(cfg any) error {
	result := ValidateConfig(cfg)
	if result.Valid {
		return nil
	}
	return &InvalidConfigError{Result: result}
}

// AssertValidStrict is AssertValid with warnings treated as failures.
func AssertValidStrict(cfg any) error {
	result := ValidateConfig(cfg)
	if result.Valid && len(result.Warnings) == 0 {
		return nil
	}
	return &InvalidConfigError{Result: result}
}
