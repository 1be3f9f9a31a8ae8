package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-crudkit/pkg/schema"
)

// Document wraps a loaded OpenAPI 3 spec and converts its operations into
// raw config documents for the schema parser.
type Document struct {
	spec *openapi3.T
}

// Load parses an OpenAPI 3 document from raw JSON or YAML bytes.
func Load(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}
	return &Document{spec: spec}, nil
}

// Operations lists the operation ids available for conversion, sorted.
func (d *Document) Operations() []string {
	var out []string
	d.eachOperation(func(id string, _ *openapi3.Operation) {
		out = append(out, id)
	})
	sort.Strings(out)
	return out
}

// FormConfig derives a form config from an operation's request body schema.
// Object properties become fields (sorted by name, required properties
// first-class), and the result flows through the regular parser so all
// defaulting and idempotency guarantees hold.
func (d *Document) FormConfig(operationID string, opts ...schema.Option) (schema.FormConfig, error) {
	operation, ok := d.findOperation(operationID)
	if !ok {
		return schema.FormConfig{}, fmt.Errorf("openapi: unknown operation %q", operationID)
	}

	body := requestSchema(operation)
	if body == nil || len(body.Properties) == 0 {
		return schema.FormConfig{}, fmt.Errorf("openapi: operation %q has no object request body", operationID)
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	fields := make([]any, 0, len(body.Properties))
	for _, name := range sortedKeys(body.Properties) {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := fieldFromProperty(name, ref.Value)
		if _, isRequired := required[name]; isRequired {
			field["required"] = true
		}
		fields = append(fields, field)
	}

	title := strings.TrimSpace(operation.Summary)
	if title == "" {
		title = operationID
	}

	raw := map[string]any{
		"id":    operationID,
		"title": title,
		"sections": []any{
			map[string]any{
				"title":  title,
				"fields": fields,
			},
		},
	}
	return schema.ParseFormConfig(raw, opts...)
}

// TableConfig derives a table config from an operation's array response
// schema (the 200 response's items object).
func (d *Document) TableConfig(operationID string, opts ...schema.Option) (schema.TableConfig, error) {
	operation, ok := d.findOperation(operationID)
	if !ok {
		return schema.TableConfig{}, fmt.Errorf("openapi: unknown operation %q", operationID)
	}

	items := responseItemsSchema(operation)
	if items == nil || len(items.Properties) == 0 {
		return schema.TableConfig{}, fmt.Errorf("openapi: operation %q has no array-of-objects response", operationID)
	}

	columns := make([]any, 0, len(items.Properties))
	for _, name := range sortedKeys(items.Properties) {
		ref := items.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		columns = append(columns, columnFromProperty(name, ref.Value))
	}

	raw := map[string]any{"columns": columns}
	return schema.ParseTableConfig(raw, opts...)
}

func (d *Document) eachOperation(fn func(id string, op *openapi3.Operation)) {
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil {
				continue
			}
			id := operation.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			fn(id, operation)
		}
	}
}

func (d *Document) findOperation(operationID string) (*openapi3.Operation, bool) {
	var found *openapi3.Operation
	d.eachOperation(func(id string, op *openapi3.Operation) {
		if id == operationID {
			found = op
		}
	})
	return found, found != nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func responseItemsSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.Responses == nil {
		return nil
	}
	ref := operation.Responses.Status(200)
	if ref == nil || ref.Value == nil {
		return nil
	}
	mt, ok := ref.Value.Content["application/json"]
	if !ok || mt.Schema == nil || mt.Schema.Value == nil {
		return nil
	}
	body := mt.Schema.Value
	if body.Items != nil && body.Items.Value != nil {
		return body.Items.Value
	}
	return nil
}

func fieldFromProperty(name string, prop *openapi3.Schema) map[string]any {
	field := map[string]any{
		"name": name,
		"type": string(fieldTypeFor(prop)),
	}
	if title := strings.TrimSpace(prop.Title); title != "" {
		field["label"] = title
	}
	if desc := strings.TrimSpace(prop.Description); desc != "" {
		field["helpText"] = desc
	}
	if prop.Default != nil {
		field["defaultValue"] = prop.Default
	}
	if len(prop.Enum) > 0 {
		field["options"] = append([]any(nil), prop.Enum...)
	}
	if prop.Min != nil {
		field["min"] = *prop.Min
	}
	if prop.Max != nil {
		field["max"] = *prop.Max
	}
	if prop.MinLength > 0 {
		field["minLength"] = float64(prop.MinLength)
	}
	if prop.MaxLength != nil {
		field["maxLength"] = float64(*prop.MaxLength)
	}
	if prop.Pattern != "" {
		field["validation"] = []any{
			map[string]any{"type": "pattern", "value": prop.Pattern},
		}
	}
	return field
}

func fieldTypeFor(prop *openapi3.Schema) schema.FieldType {
	switch {
	case prop.Type.Is(openapi3.TypeBoolean):
		return schema.FieldSwitch
	case prop.Type.Is(openapi3.TypeInteger), prop.Type.Is(openapi3.TypeNumber):
		return schema.FieldNumber
	case prop.Type.Is(openapi3.TypeArray):
		if len(prop.Enum) > 0 {
			return schema.FieldMultiSelect
		}
		if prop.Items != nil && prop.Items.Value != nil && len(prop.Items.Value.Enum) > 0 {
			return schema.FieldMultiSelect
		}
		return schema.FieldText
	case prop.Type.Is(openapi3.TypeString):
		if len(prop.Enum) > 0 {
			return schema.FieldSelect
		}
		switch prop.Format {
		case "email":
			return schema.FieldEmail
		case "date":
			return schema.FieldDate
		case "date-time":
			return schema.FieldDateTime
		case "time":
			return schema.FieldTime
		case "uri", "url":
			return schema.FieldURL
		case "password":
			return schema.FieldPassword
		case "byte", "binary":
			return schema.FieldFile
		case "tel", "phone":
			return schema.FieldTel
		default:
			return schema.FieldText
		}
	default:
		return schema.FieldText
	}
}

func columnFromProperty(name string, prop *openapi3.Schema) map[string]any {
	column := map[string]any{
		"key":  name,
		"type": string(columnTypeFor(prop)),
	}
	if title := strings.TrimSpace(prop.Title); title != "" {
		column["header"] = title
	}
	return column
}

func columnTypeFor(prop *openapi3.Schema) schema.ColumnType {
	switch {
	case prop.Type.Is(openapi3.TypeBoolean):
		return schema.ColumnBoolean
	case prop.Type.Is(openapi3.TypeInteger), prop.Type.Is(openapi3.TypeNumber):
		return schema.ColumnNumber
	case prop.Type.Is(openapi3.TypeString):
		switch prop.Format {
		case "date":
			return schema.ColumnDate
		case "date-time":
			return schema.ColumnDateTime
		case "uri", "url":
			return schema.ColumnLink
		default:
			return schema.ColumnText
		}
	default:
		return schema.ColumnText
	}
}

func sortedKeys(properties openapi3.Schemas) []string {
	keys := make([]string, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
