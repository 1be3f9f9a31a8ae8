// Package condition evaluates boolean trees of field comparisons against a
// data record. The same trees drive field/section/column visibility
// ("showWhen") and declarative table filters, so both features share one set
// of operator semantics.
//
// Evaluation is total: malformed leaves (missing field name, unknown
// operator, mistyped operands) evaluate to false rather than failing, because
// a visibility check must never take down a render.
package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-crudkit/pkg/dotpath"
)

// Operator identifies a single comparison between a record field and a
// configured value.
type Operator string

const (
	OpEq         Operator = "eq"
	OpNeq        Operator = "neq"
	OpGt         Operator = "gt"
	OpGte        Operator = "gte"
	OpLt         Operator = "lt"
	OpLte        Operator = "lte"
	OpIn         Operator = "in"
	OpNotIn      Operator = "notIn"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
	OpEmpty      Operator = "empty"
	OpNotEmpty   Operator = "notEmpty"
)

// Logic combines the children of a composite group.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// Group is a node in a condition tree. A node is a composite when Logic is
// set (its Conditions are combined with and/or), otherwise it is a leaf
// comparing one field against Value. Groups nest to arbitrary depth.
type Group struct {
	Field    string   `json:"field,omitempty" yaml:"field,omitempty"`
	Operator Operator `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value    any      `json:"value,omitempty" yaml:"value,omitempty"`

	Logic      Logic   `json:"logic,omitempty" yaml:"logic,omitempty"`
	Conditions []Group `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// IsComposite reports whether the node combines child conditions rather than
// comparing a single field.
func (g Group) IsComposite() bool {
	return g.Logic != ""
}

// IsZero reports whether the node carries no condition at all. Parsers use it
// to distinguish "no showWhen" from "always-false showWhen".
func (g Group) IsZero() bool {
	return g.Field == "" && g.Operator == "" && g.Value == nil && g.Logic == "" && len(g.Conditions) == 0
}

// Where builds a leaf condition.
func Where(field string, op Operator, value any) Group {
	return Group{Field: field, Operator: op, Value: value}
}

// And combines conditions so that all must hold.
func And(conditions ...Group) Group {
	return Group{Logic: LogicAnd, Conditions: conditions}
}

// Or combines conditions so that at least one must hold.
func Or(conditions ...Group) Group {
	return Group{Logic: LogicOr, Conditions: conditions}
}

// FlagPrefix routes a leaf's field lookup to Context.Flags instead of
// Context.Data.
const FlagPrefix = "flags."

// Context carries the record a tree is evaluated against plus optional
// feature flags. Leaves whose field starts with "flags." read from Flags
// instead of Data.
type Context struct {
	Data  map[string]any
	Flags map[string]any
}

// Evaluate runs the tree against a data record.
func Evaluate(group Group, data map[string]any) bool {
	return EvaluateContext(group, Context{Data: data})
}

// EvaluateContext runs the tree against the full evaluation context.
// Composite groups short-circuit: "and" stops at the first false child,
// "or" at the first true one. An empty "and" is vacuously true; an empty
// "or" is false.
func EvaluateContext(group Group, ctx Context) bool {
	if !group.IsComposite() {
		return evaluateLeaf(group, ctx)
	}

	switch group.Logic {
	case LogicAnd:
		for _, child := range group.Conditions {
			if !EvaluateContext(child, ctx) {
				return false
			}
		}
		return true
	case LogicOr:
		for _, child := range group.Conditions {
			if EvaluateContext(child, ctx) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func evaluateLeaf(cond Group, ctx Context) bool {
	field := strings.TrimSpace(cond.Field)
	if field == "" {
		return false
	}

	value, _ := lookup(ctx, field)

	switch cond.Operator {
	case OpEq:
		return looseEqual(value, cond.Value)
	case OpNeq:
		return !looseEqual(value, cond.Value)
	case OpGt, OpGte, OpLt, OpLte:
		return compareNumeric(cond.Operator, value, cond.Value)
	case OpIn:
		return member(value, cond.Value)
	case OpNotIn:
		return memberListValid(cond.Value) && !member(value, cond.Value)
	case OpContains:
		return strings.Contains(coerceString(value), coerceString(cond.Value))
	case OpStartsWith:
		return strings.HasPrefix(coerceString(value), coerceString(cond.Value))
	case OpEndsWith:
		return strings.HasSuffix(coerceString(value), coerceString(cond.Value))
	case OpEmpty:
		return IsEmpty(value)
	case OpNotEmpty:
		return !IsEmpty(value)
	default:
		return false
	}
}

func lookup(ctx Context, field string) (any, bool) {
	if strings.HasPrefix(field, FlagPrefix) {
		return dotpath.Get(ctx.Flags, strings.TrimPrefix(field, FlagPrefix))
	}
	return dotpath.Get(ctx.Data, field)
}

// IsEmpty reports whether a value counts as empty for the empty/notEmpty
// operators and for required-field checks: nil, an empty string, or an empty
// sequence. Zero numbers and false are not empty.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

// looseEqual compares two values the way a filter chip does: when both sides
// parse as numbers they compare numerically ("10" == 10), otherwise their
// string forms compare byte-for-byte.
func looseEqual(a, b any) bool {
	aNum, aOK := coerceNumber(a)
	bNum, bOK := coerceNumber(b)
	if aOK && bOK {
		return aNum == bNum
	}
	return coerceString(a) == coerceString(b)
}

func compareNumeric(op Operator, value, bound any) bool {
	left, okLeft := coerceNumber(value)
	right, okRight := coerceNumber(bound)
	if !okLeft || !okRight {
		return false
	}
	switch op {
	case OpGt:
		return left > right
	case OpGte:
		return left >= right
	case OpLt:
		return left < right
	case OpLte:
		return left <= right
	default:
		return false
	}
}

func member(value, list any) bool {
	for _, item := range sequence(list) {
		if looseEqual(value, item) {
			return true
		}
	}
	return false
}

func memberListValid(list any) bool {
	return sequence(list) != nil
}

func sequence(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	default:
		return nil
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
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
