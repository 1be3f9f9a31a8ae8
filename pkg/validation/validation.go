package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-crudkit/pkg/condition"
	"github.com/goliatone/go-crudkit/pkg/dotpath"
	"github.com/goliatone/go-crudkit/pkg/schema"
)

// FieldResult is the outcome of validating a single value. Message is empty
// when Valid is true; otherwise it carries the first failing rule's message.
type FieldResult struct {
	Valid   bool
	Message string
}

// FormResult maps failing field names to their messages.
type FormResult struct {
	Valid  bool
	Errors map[string]string
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func pass() FieldResult {
	return FieldResult{Valid: true}
}

func fail(rule schema.ValidationRule, fallback string) FieldResult {
	message := strings.TrimSpace(rule.Message)
	if message == "" {
		message = fallback
	}
	return FieldResult{Message: message}
}

// ValidateField runs a field's rules against a value, in rule order, stopping
// at the first failure. An empty value passes every rule except required;
// optional empty fields are always valid.
func ValidateField(value any, field schema.FieldConfig, formData map[string]any) FieldResult {
	for _, rule := range field.Validation {
		if rule.Type == schema.RuleRequired {
			if condition.IsEmpty(value) {
				return fail(rule, fmt.Sprintf("%s is required", labelFor(field)))
			}
			continue
		}

		// Non-required rules only constrain present values.
		if condition.IsEmpty(value) {
			continue
		}

		if result := applyRule(rule, value, field, formData); !result.Valid {
			return result
		}
	}
	return pass()
}

// ValidateForm validates every visible, editable field of a form against the
// flat data record. Fields hidden by their showWhen condition are skipped
// entirely, as are computed fields, whose values the engine derives itself.
func ValidateForm(formData map[string]any, fields []schema.FieldConfig) FormResult {
	result := FormResult{Valid: true, Errors: map[string]string{}}
	for _, field := range fields {
		if field.IsComputed() {
			continue
		}
		if field.ShowWhen != nil && !condition.Evaluate(*field.ShowWhen, formData) {
			continue
		}

		value, _ := dotpath.Get(formData, field.Name)
		if outcome := ValidateField(value, field, formData); !outcome.Valid {
			result.Valid = false
			result.Errors[field.Name] = outcome.Message
		}
	}
	return result
}

// ValidateFormConfig validates a whole form config, honoring section-level
// visibility: when a section's showWhen evaluates false its fields are
// skipped entirely, the same way ValidateForm skips a field's own showWhen.
func ValidateFormConfig(formData map[string]any, form schema.FormConfig) FormResult {
	result := FormResult{Valid: true, Errors: map[string]string{}}
	for _, section := range form.Sections {
		if section.ShowWhen != nil && !condition.Evaluate(*section.ShowWhen, formData) {
			continue
		}
		partial := ValidateForm(formData, section.Fields)
		for name, message := range partial.Errors {
			result.Valid = false
			result.Errors[name] = message
		}
	}
	return result
}

func applyRule(rule schema.ValidationRule, value any, field schema.FieldConfig, formData map[string]any) FieldResult {
	switch rule.Type {
	case schema.RuleMin:
		bound, ok := ruleNumber(rule)
		if !ok {
			return pass()
		}
		number, ok := coerceNumber(value)
		if !ok || number < bound {
			return fail(rule, fmt.Sprintf("%s must be at least %s", labelFor(field), formatBound(bound)))
		}
	case schema.RuleMax:
		bound, ok := ruleNumber(rule)
		if !ok {
			return pass()
		}
		number, ok := coerceNumber(value)
		if !ok || number > bound {
			return fail(rule, fmt.Sprintf("%s must be at most %s", labelFor(field), formatBound(bound)))
		}
	case schema.RuleMinLength:
		bound, ok := ruleNumber(rule)
		if !ok {
			return pass()
		}
		if valueLength(value) < int(bound) {
			return fail(rule, fmt.Sprintf("%s must be at least %d characters", labelFor(field), int(bound)))
		}
	case schema.RuleMaxLength:
		bound, ok := ruleNumber(rule)
		if !ok {
			return pass()
		}
		if valueLength(value) > int(bound) {
			return fail(rule, fmt.Sprintf("%s must be at most %d characters", labelFor(field), int(bound)))
		}
	case schema.RulePattern:
		source, _ := rule.Value.(string)
		if source == "" {
			return pass()
		}
		pattern, err := regexp.Compile(source)
		if err != nil {
			// The config validator reports bad patterns; at runtime they
			// cannot reject user input.
			return pass()
		}
		if !pattern.MatchString(coerceString(value)) {
			return fail(rule, fmt.Sprintf("%s has an invalid format", labelFor(field)))
		}
	case schema.RuleEmail:
		if !emailPattern.MatchString(coerceString(value)) {
			return fail(rule, fmt.Sprintf("%s must be a valid email address", labelFor(field)))
		}
	case schema.RuleURL:
		parsed, err := url.Parse(coerceString(value))
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			return fail(rule, fmt.Sprintf("%s must be a valid URL", labelFor(field)))
		}
	case schema.RuleMatch:
		target, _ := rule.Value.(string)
		if target == "" {
			return pass()
		}
		other, _ := dotpath.Get(formData, target)
		if !looseEqual(value, other) {
			return fail(rule, fmt.Sprintf("%s must match %s", labelFor(field), target))
		}
	case schema.RuleCustom:
		if rule.Custom == nil {
			return pass()
		}
		if err := rule.Custom(value, formData); err != nil {
			return fail(rule, err.Error())
		}
	}
	return pass()
}

func labelFor(field schema.FieldConfig) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func ruleNumber(rule schema.ValidationRule) (float64, bool) {
	switch v := rule.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func formatBound(bound float64) string {
	return strconv.FormatFloat(bound, 'f', -1, 64)
}

func valueLength(value any) int {
	switch v := value.(type) {
	case string:
		return len([]rune(v))
	case []any:
		return len(v)
	case []string:
		return len(v)
	default:
		return len([]rune(coerceString(value)))
	}
}

func coerceString(value any) string {
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

func coerceNumber(value any) (float64, bool) {
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

// looseEqual matches the condition evaluator's equality: values compare
// numerically when both sides parse as numbers, otherwise as strings.
func looseEqual(a, b any) bool {
	if na, ok := coerceNumber(a); ok {
		if nb, ok := coerceNumber(b); ok {
			return na == nb
		}
	}
	return coerceString(a) == coerceString(b)
}
