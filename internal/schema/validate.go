package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-crudkit/pkg/condition"
)

// Severity classifies a validation finding. Errors make the config unusable;
// warnings flag likely mistakes that still render.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single problem located by the config validator.
type Finding struct {
	Path       string   `json:"path"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Result aggregates validator findings. Valid is true iff no errors were
// recorded; warnings alone do not invalidate a config.
type Result struct {
	Valid    bool      `json:"valid"`
	Errors   []Finding `json:"errors,omitempty"`
	Warnings []Finding `json:"warnings,omitempty"`
}

func (r *Result) error(path, message string) {
	r.Errors = append(r.Errors, Finding{Path: path, Message: message, Severity: SeverityError})
}

func (r *Result) warn(path, message, suggestion string) {
	r.Warnings = append(r.Warnings, Finding{Path: path, Message: message, Severity: SeverityWarning, Suggestion: suggestion})
}

func (r *Result) finish() Result {
	r.Valid = len(r.Errors) == 0
	return *r
}

var knownOperators = map[condition.Operator]struct{}{
	condition.OpEq: {}, condition.OpNeq: {},
	condition.OpGt: {}, condition.OpGte: {},
	condition.OpLt: {}, condition.OpLte: {},
	condition.OpIn: {}, condition.OpNotIn: {},
	condition.OpContains: {}, condition.OpStartsWith: {}, condition.OpEndsWith: {},
	condition.OpEmpty: {}, condition.OpNotEmpty: {},
}

// ValidateAny validates a config of any supported shape, parsed or raw.
func ValidateAny(cfg any) Result {
	switch typed := cfg.(type) {
	case TableConfig:
		return ValidateTable(typed)
	case *TableConfig:
		return ValidateTable(*typed)
	case FormConfig:
		return ValidateForm(typed)
	case *FormConfig:
		return ValidateForm(*typed)
	case ModalConfig:
		return ValidateModal(typed)
	case *ModalConfig:
		return ValidateModal(*typed)
	case map[string]any:
		return ValidateRaw(typed)
	default:
		var result Result
		result.error("", fmt.Sprintf("schema: unsupported config type %T", cfg))
		return result.finish()
	}
}

// ValidateRaw inspects an unparsed config document leniently, dispatching on
// the columns/sections discriminator. Structural holes the strict parser
// rejects outright (missing keys or names, empty arrays) are reported as
// error findings; once the shape parses, the full validator takes over.
func ValidateRaw(raw map[string]any) Result {
	var result Result

	if _, ok := raw["columns"]; ok {
		scanRawTable(raw, &result)
		if len(result.Errors) == 0 {
			if cfg, err := ParseTable(raw, DefaultOptions()); err == nil {
				return ValidateTable(cfg)
			}
		}
		return result.finish()
	}
	if _, ok := raw["sections"]; ok {
		scanRawForm(raw, &result)
		if len(result.Errors) == 0 {
			if cfg, err := ParseForm(raw, DefaultOptions()); err == nil {
				return ValidateForm(cfg)
			}
		}
		return result.finish()
	}

	result.error("", "config has neither a columns nor a sections key")
	return result.finish()
}

func scanRawTable(raw map[string]any, result *Result) {
	columns, ok := asSlice(raw["columns"])
	if !ok || len(columns) == 0 {
		result.error("columns", "table config requires a non-empty columns array")
		return
	}
	for idx, entry := range columns {
		path := fmt.Sprintf("columns[%d]", idx)
		column, ok := asMap(entry)
		if !ok {
			result.error(path, "column must be an object")
			continue
		}
		if strings.TrimSpace(asString(column["key"])) == "" {
			result.error(path+".key", "column is missing its key")
		}
	}
}

func scanRawForm(raw map[string]any, result *Result) {
	sections, ok := asSlice(raw["sections"])
	if !ok || len(sections) == 0 {
		result.error("sections", "form config requires a non-empty sections array")
		return
	}
	for sIdx, entry := range sections {
		sectionPath := fmt.Sprintf("sections[%d]", sIdx)
		section, ok := asMap(entry)
		if !ok {
			result.error(sectionPath, "section must be an object")
			continue
		}
		fields, ok := asSlice(section["fields"])
		if !ok || len(fields) == 0 {
			result.error(sectionPath+".fields", "section requires a non-empty fields array")
			continue
		}
		for fIdx, rawField := range fields {
			fieldPath := fmt.Sprintf("%s.fields[%d]", sectionPath, fIdx)
			field, ok := asMap(rawField)
			if !ok {
				result.error(fieldPath, "field must be an object")
				continue
			}
			if strings.TrimSpace(asString(field["name"])) == "" {
				result.error(fieldPath+".name", "field is missing its name")
			}
		}
	}
}

// ValidateTable checks a normalized table config for structural problems the
// parser tolerates: duplicate keys, unknown types, broken conditions.
func ValidateTable(cfg TableConfig) Result {
	var result Result

	seen := make(map[string]int, len(cfg.Columns))
	for idx, column := range cfg.Columns {
		path := fmt.Sprintf("columns[%d]", idx)

		if first, dup := seen[column.Key]; dup {
			result.error("columns", fmt.Sprintf("duplicate column key %q (columns[%d] and columns[%d])", column.Key, first, idx))
		} else {
			seen[column.Key] = idx
		}

		if !column.Type.Known() {
			result.warn(path+".type", fmt.Sprintf("unknown column type %q", column.Type),
				"use one of the built-in column types or handle it with a custom formatter")
		}
		if column.Header == "" {
			result.warn(path+".header", fmt.Sprintf("column %q has no header", column.Key),
				fmt.Sprintf("set header: %q or enable label generation", Humanize(column.Key)))
		}
		validateCondition(&result, path+".showWhen", column.ShowWhen, nil)
	}

	if cfg.SortBy.Column != "" {
		if _, ok := seen[cfg.SortBy.Column]; !ok {
			result.warn("sortBy.column", fmt.Sprintf("default sort column %q does not match any column key", cfg.SortBy.Column), "")
		}
	}
	for idx := range cfg.Filters {
		validateCondition(&result, fmt.Sprintf("filters[%d]", idx), &cfg.Filters[idx], nil)
	}
	if cfg.Pagination.Enabled && cfg.Pagination.PageSize <= 0 {
		result.error("pagination.pageSize", "page size must be positive when pagination is enabled")
	}

	return result.finish()
}

// ValidateForm checks a normalized form config. Field names must be unique
// across all sections because form data is a flat record.
func ValidateForm(cfg FormConfig) Result {
	var result Result

	names := make(map[string]struct{})
	for _, section := range cfg.Sections {
		for _, field := range section.Fields {
			names[field.Name] = struct{}{}
		}
	}

	seen := make(map[string]string)
	for sIdx, section := range cfg.Sections {
		sectionPath := fmt.Sprintf("sections[%d]", sIdx)
		if len(section.Fields) == 0 {
			result.warn(sectionPath+".fields", fmt.Sprintf("section %q declares no fields", section.ID), "")
		}
		validateCondition(&result, sectionPath+".showWhen", section.ShowWhen, names)

		for fIdx, field := range section.Fields {
			path := fmt.Sprintf("%s.fields[%d]", sectionPath, fIdx)
			if first, dup := seen[field.Name]; dup {
				result.error("sections", fmt.Sprintf("duplicate field name %q (%s and %s)", field.Name, first, path))
			} else {
				seen[field.Name] = path
			}
			validateField(&result, path, field, names)
		}
	}

	return result.finish()
}

// ValidateModal validates the modal shell plus its nested form.
func ValidateModal(cfg ModalConfig) Result {
	var result Result
	if cfg.Form != nil {
		nested := ValidateForm(*cfg.Form)
		for _, finding := range nested.Errors {
			result.error("form."+finding.Path, finding.Message)
		}
		for _, finding := range nested.Warnings {
			result.warn("form."+finding.Path, finding.Message, finding.Suggestion)
		}
	}
	return result.finish()
}

func validateField(result *Result, path string, field FieldConfig, names map[string]struct{}) {
	if !field.Type.Known() {
		result.warn(path+".type", fmt.Sprintf("unknown field type %q", field.Type),
			"unknown types render as plain text inputs")
	}
	if field.Label == "" && field.Type != FieldHidden {
		result.warn(path+".label", fmt.Sprintf("field %q has no label", field.Name),
			fmt.Sprintf("set label: %q or enable label generation", Humanize(field.Name)))
	}
	if field.Type.RequiresOptions() && len(field.Options) == 0 && field.EntityType == "" {
		result.error(path, fmt.Sprintf("field %q of type %q requires options or an entityType", field.Name, field.Type))
	}

	for rIdx, rule := range field.Validation {
		rulePath := fmt.Sprintf("%s.validation[%d]", path, rIdx)
		switch rule.Type {
		case RulePattern:
			source, _ := rule.Value.(string)
			if source == "" {
				result.error(rulePath, "pattern rule requires a non-empty pattern value")
			} else if _, err := regexp.Compile(source); err != nil {
				result.error(rulePath, fmt.Sprintf("invalid pattern %q: %v", source, err))
			}
		case RuleMatch:
			target, _ := rule.Value.(string)
			if target == "" {
				result.error(rulePath, "match rule requires the name of the field to match")
			} else if names != nil {
				if _, ok := names[target]; !ok {
					result.error(rulePath, fmt.Sprintf("match rule references unknown field %q", target))
				}
			}
		case RuleMin, RuleMax, RuleMinLength, RuleMaxLength:
			if _, ok := rule.Value.(float64); !ok {
				result.error(rulePath, fmt.Sprintf("%s rule requires a numeric value", rule.Type))
			}
		case RuleCustom:
			if rule.Custom == nil {
				result.warn(rulePath, "custom rule declared in config has no executable function attached",
					"attach a CustomRule in code via a field registry")
			}
		}
	}

	if field.Computed != nil {
		computedPath := path + ".computed"
		if field.Computed.Formula == "" {
			result.error(computedPath+".formula", fmt.Sprintf("computed field %q has an empty formula", field.Name))
		}
		if len(field.Computed.Deps) == 0 {
			result.error(computedPath+".deps", fmt.Sprintf("computed field %q declares no dependencies", field.Name))
		}
		for dIdx, dep := range field.Computed.Deps {
			if names != nil {
				if _, ok := names[dep]; !ok {
					result.error(fmt.Sprintf("%s.deps[%d]", computedPath, dIdx),
						fmt.Sprintf("computed field %q depends on unknown field %q", field.Name, dep))
				}
			}
		}
	}

	validateCondition(result, path+".showWhen", field.ShowWhen, names)
}

// validateCondition walks a condition tree. names, when non-nil, is the set
// of field names the condition may legally reference; table row conditions
// pass nil because row shapes are unknown at config time.
func validateCondition(result *Result, path string, group *condition.Group, names map[string]struct{}) {
	if group == nil {
		return
	}
	if group.IsComposite() {
		if group.Logic != condition.LogicAnd && group.Logic != condition.LogicOr {
			result.error(path+".logic", fmt.Sprintf("unknown condition logic %q", group.Logic))
		}
		for idx := range group.Conditions {
			validateCondition(result, fmt.Sprintf("%s.conditions[%d]", path, idx), &group.Conditions[idx], names)
		}
		return
	}

	if group.Field == "" {
		result.error(path+".field", "condition is missing a field reference")
	} else if names != nil && !hasFlagPrefix(group.Field) {
		if _, ok := names[group.Field]; !ok {
			result.error(path+".field", fmt.Sprintf("condition references unknown field %q", group.Field))
		}
	}
	if _, ok := knownOperators[group.Operator]; !ok {
		result.error(path+".operator", fmt.Sprintf("unknown condition operator %q", group.Operator))
	}
}

func hasFlagPrefix(field string) bool {
	return len(field) > len(condition.FlagPrefix) && field[:len(condition.FlagPrefix)] == condition.FlagPrefix
}
