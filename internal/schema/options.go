package schema

// FieldNormalizer post-processes a field of its registered type after the
// generic normalization pass.
type FieldNormalizer func(field *FieldConfig)

// ColumnNormalizer post-processes a column of its registered type.
type ColumnNormalizer func(column *ColumnConfig)

// Options configures the parser. The zero value is not usable directly; the
// public adapter in pkg/schema resolves defaults before calling in.
type Options struct {
	// GenerateLabels derives labels/headers from keys when absent.
	GenerateLabels bool
	// DefaultRequired is applied to fields that do not declare required.
	DefaultRequired bool
	// DefaultColumnWidth is applied to columns that do not declare a width.
	DefaultColumnWidth string
	// DefaultSortable is applied to columns that do not declare sortable.
	DefaultSortable bool

	// TransformFieldName rewrites field names before normalization.
	TransformFieldName func(string) string
	// TransformColumnKey rewrites column keys before normalization.
	TransformColumnKey func(string) string

	// Registry supplies per-type normalizer overlays.
	Registry *Registry

	// SanitizeRichText cleans label/helpText/description strings that may
	// carry inline markup. Nil leaves them untouched.
	SanitizeRichText func(string) string
}

// DefaultOptions returns the parser defaults: labels generated, columns
// sortable, nothing required.
func DefaultOptions() Options {
	return Options{
		GenerateLabels:  true,
		DefaultSortable: true,
	}
}

func (o Options) fieldName(raw string) string {
	if o.TransformFieldName == nil {
		return raw
	}
	return o.TransformFieldName(raw)
}

func (o Options) columnKey(raw string) string {
	if o.TransformColumnKey == nil {
		return raw
	}
	return o.TransformColumnKey(raw)
}

func (o Options) sanitize(text string) string {
	if o.SanitizeRichText == nil {
		return text
	}
	return o.SanitizeRichText(text)
}
