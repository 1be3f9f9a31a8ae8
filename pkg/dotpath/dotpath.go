// Package dotpath reads and writes values inside nested JSON-shaped records
// using dotted paths ("owner.address.city"). Lookups never panic; a missing
// segment simply reports absence. Writes are copy-on-write so callers can
// treat records as immutable state.
package dotpath

import "strings"

// Get walks record along the dotted path and returns the value found there.
// When a record holds a literal dotted key ("cta.headline") that exact entry
// wins over traversal. The boolean reports whether the full path resolved.
func Get(record map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(record) == 0 || path == "" {
		return nil, false
	}

	if value, ok := record[path]; ok {
		return value, true
	}

	parts := strings.Split(path, ".")
	var current any = record
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// Set returns a copy of record with the value stored at the dotted path.
// Every map along the path is shallow-copied, so the input record and any
// untouched branches are never mutated. Intermediate segments that are
// missing or not maps are replaced with fresh maps.
func Set(record map[string]any, path string, value any) map[string]any {
	path = strings.TrimSpace(path)
	if path == "" {
		return cloneLevel(record)
	}

	parts := strings.Split(path, ".")
	return setRecursive(record, parts, value)
}

func setRecursive(level map[string]any, parts []string, value any) map[string]any {
	out := cloneLevel(level)
	key := strings.TrimSpace(parts[0])
	if key == "" {
		return out
	}

	if len(parts) == 1 {
		out[key] = value
		return out
	}

	child, _ := out[key].(map[string]any)
	out[key] = setRecursive(child, parts[1:], value)
	return out
}

func cloneLevel(level map[string]any) map[string]any {
	out := make(map[string]any, len(level)+1)
	for k, v := range level {
		out[k] = v
	}
	return out
}

// KeyFunc derives a row identity from the full row record.
type KeyFunc func(row map[string]any) any

// RowKey resolves the stable identity of a row. keyOrFn is either a KeyFunc
// invoked with the row, or a field name read by direct property access (not
// dot-path traversal; row keys are expected to live at the top level).
func RowKey(row map[string]any, keyOrFn any) any {
	switch key := keyOrFn.(type) {
	case KeyFunc:
		if key == nil {
			return nil
		}
		return key(row)
	case func(map[string]any) any:
		if key == nil {
			return nil
		}
		return key(row)
	case string:
		if row == nil {
			return nil
		}
		return row[key]
	default:
		return nil
	}
}
