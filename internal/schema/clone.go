package schema

// DeepClone copies a JSON-shaped value structurally: maps and slices are
// cloned recursively, scalars are returned as-is. Parsed configs deep-clone
// every passthrough key so mutating the output can never reach back into the
// raw source document.
func DeepClone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = DeepClone(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = DeepClone(item)
		}
		return out
	default:
		return v
	}
}

func cloneExtra(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	cloned, _ := DeepClone(extra).(map[string]any)
	return cloned
}
