package schema

import "sync"

// Registry holds per-field and per-column normalizer overlays. Applications
// register handlers instead of patching the parser; the parser consults the
// registry after its generic pass. Handlers register under a field name or a
// field type (column key or column type); an exact name match wins over a
// type match. A nil or empty registry is a no-op.
type Registry struct {
	mu      sync.RWMutex
	fields  map[string]FieldNormalizer
	columns map[string]ColumnNormalizer
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fields:  make(map[string]FieldNormalizer),
		columns: make(map[string]ColumnNormalizer),
	}
}

// RegisterField installs a normalizer under a field name or field type. The
// latest registration for a key wins.
func (r *Registry) RegisterField(key string, fn FieldNormalizer) {
	if r == nil || key == "" || fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[key] = fn
}

// RegisterColumn installs a normalizer under a column key or column type.
func (r *Registry) RegisterColumn(key string, fn ColumnNormalizer) {
	if r == nil || key == "" || fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.columns[key] = fn
}

func (r *Registry) applyField(field *FieldConfig) {
	if r == nil || field == nil {
		return
	}
	r.mu.RLock()
	fn, ok := r.fields[field.Name]
	if !ok {
		fn = r.fields[string(field.Type)]
	}
	r.mu.RUnlock()
	if fn != nil {
		fn(field)
	}
}

func (r *Registry) applyColumn(column *ColumnConfig) {
	if r == nil || column == nil {
		return
	}
	r.mu.RLock()
	fn, ok := r.columns[column.Key]
	if !ok {
		fn = r.columns[string(column.Type)]
	}
	r.mu.RUnlock()
	if fn != nil {
		fn(column)
	}
}
