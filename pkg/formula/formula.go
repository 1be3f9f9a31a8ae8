// Package formula derives computed form-field values from small arithmetic
// formulas declared in configuration, e.g. {"formula": "qty * price",
// "deps": ["qty", "price"]}. Dependency values are substituted as numeric
// literals, the result is sanitized against a strict character allow-list,
// and the remaining expression is parsed and evaluated directly. A broken
// formula never fails a form; it degrades to a safe fallback value.
package formula

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-crudkit/pkg/dotpath"
)

// Evaluate substitutes the dependency values into the formula and evaluates
// the resulting arithmetic expression. It returns 0 when any dependency is
// unsatisfied, when sanitation leaves no valid expression, or when
// evaluation fails. It never panics.
func Evaluate(formula string, data map[string]any, deps []string) float64 {
	value, ok := evaluate(formula, data, deps)
	if !ok {
		return 0
	}
	return value
}

// Resolve is the render-time counterpart of Evaluate: when the formula
// cannot be evaluated (mid-entry dependencies, malformed expression) it
// returns the field's currently stored value instead of 0, so the UI never
// flashes a bogus zero while the user is typing.
func Resolve(formula string, deps []string, fieldName string, data map[string]any) any {
	if value, ok := evaluate(formula, data, deps); ok {
		return value
	}
	stored, _ := dotpath.Get(data, fieldName)
	return stored
}

// DepsSatisfied reports whether every dependency resolves to a usable value:
// present, non-nil, and not an empty string.
func DepsSatisfied(data map[string]any, deps []string) bool {
	if len(deps) == 0 {
		return false
	}
	for _, dep := range deps {
		value, ok := dotpath.Get(data, strings.TrimSpace(dep))
		if !ok || value == nil {
			return false
		}
		if s, isString := value.(string); isString && s == "" {
			return false
		}
	}
	return true
}

func evaluate(formula string, data map[string]any, deps []string) (float64, bool) {
	formula = strings.TrimSpace(formula)
	if formula == "" || !DepsSatisfied(data, deps) {
		return 0, false
	}

	substituted := substitute(formula, data, deps)
	sanitized := Sanitize(substituted)
	if strings.TrimSpace(sanitized) == "" {
		return 0, false
	}

	value, err := evalExpression(sanitized)
	if err != nil {
		return 0, false
	}
	return value, true
}

// substitute replaces each dependency token with its numeric literal. Both
// the "{name}" brace form and the bare word-boundary form are recognized.
// Longer names substitute first so "subtotal" never collides with "total".
func substitute(formula string, data map[string]any, deps []string) string {
	ordered := make([]string, 0, len(deps))
	for _, dep := range deps {
		if trimmed := strings.TrimSpace(dep); trimmed != "" {
			ordered = append(ordered, trimmed)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	out := formula
	for _, dep := range ordered {
		value, _ := dotpath.Get(data, dep)
		literal := formatNumber(coerceFloat(value))

		quoted := regexp.QuoteMeta(dep)
		braced := regexp.MustCompile(`\{\s*` + quoted + `\s*\}`)
		out = braced.ReplaceAllString(out, literal)

		bare := regexp.MustCompile(`\b` + quoted + `\b`)
		out = bare.ReplaceAllString(out, literal)
	}
	return out
}

// Sanitize strips every character that is not part of the arithmetic
// allow-list: digits, the four operators, parentheses, dot, whitespace, and
// the recognized Math call forms. The allow-list keeps JSON-sourced formula
// strings from smuggling anything executable past the parser.
func Sanitize(expr string) string {
	var out strings.Builder
	i := 0
	for i < len(expr) {
		rest := expr[i:]
		switch {
		case strings.HasPrefix(rest, funcRound):
			out.WriteString(funcRound)
			i += len(funcRound)
		case strings.HasPrefix(rest, funcFloor):
			out.WriteString(funcFloor)
			i += len(funcFloor)
		case strings.HasPrefix(rest, "Math"):
			out.WriteString("Math")
			i += len("Math")
		case allowedChar(expr[i]):
			out.WriteByte(expr[i])
			i++
		default:
			i++
		}
	}
	return out.String()
}

func allowedChar(ch byte) bool {
	if ch >= '0' && ch <= '9' {
		return true
	}
	switch ch {
	case '+', '-', '*', '/', '(', ')', '.', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// coerceFloat mirrors parseFloat(String(value)): the longest numeric prefix
// wins and anything unparsable becomes 0.
func coerceFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseLeadingFloat(strings.TrimSpace(v))
	default:
		return 0
	}
}

func parseLeadingFloat(s string) float64 {
	end := 0
	seenDot := false
	seenDigit := false
	for end < len(s) {
		ch := s[end]
		if ch == '-' || ch == '+' {
			if end != 0 {
				break
			}
		} else if ch == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if ch >= '0' && ch <= '9' {
			seenDigit = true
		} else {
			break
		}
		end++
	}
	if !seenDigit {
		return 0
	}
	value, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return value
}

func formatNumber(value float64) string {
	formatted := strconv.FormatFloat(value, 'f', -1, 64)
	if strings.HasPrefix(formatted, "-") {
		// Wrap negatives so "a * b" with a = -2 substitutes as "(-2) * b".
		return "(" + formatted + ")"
	}
	return formatted
}
