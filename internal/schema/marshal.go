package schema

import "encoding/json"

// marshalWithExtra serializes the struct through its alias (so the custom
// MarshalJSON does not recurse), then folds the Extra passthrough keys back
// into the object. Known keys always win over Extra on collision.
func marshalWithExtra(value any, extra map[string]any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return payload, nil
	}

	var object map[string]any
	if err := json.Unmarshal(payload, &object); err != nil {
		return nil, err
	}
	for key, val := range extra {
		if _, taken := object[key]; taken {
			continue
		}
		object[key] = val
	}
	return json.Marshal(object)
}

func (f FieldConfig) MarshalJSON() ([]byte, error) {
	type alias FieldConfig
	return marshalWithExtra(alias(f), f.Extra)
}

func (c ColumnConfig) MarshalJSON() ([]byte, error) {
	type alias ColumnConfig
	return marshalWithExtra(alias(c), c.Extra)
}

func (s FormSection) MarshalJSON() ([]byte, error) {
	type alias FormSection
	return marshalWithExtra(alias(s), s.Extra)
}

func (t TableConfig) MarshalJSON() ([]byte, error) {
	type alias TableConfig
	return marshalWithExtra(alias(t), t.Extra)
}

func (f FormConfig) MarshalJSON() ([]byte, error) {
	type alias FormConfig
	return marshalWithExtra(alias(f), f.Extra)
}

func (m ModalConfig) MarshalJSON() ([]byte, error) {
	type alias ModalConfig
	return marshalWithExtra(alias(m), m.Extra)
}
