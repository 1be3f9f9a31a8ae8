package formula_test

import (
	"testing"

	"github.com/goliatone/go-crudkit/pkg/formula"
)

func TestEvaluateBasicArithmetic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		formula string
		data    map[string]any
		deps    []string
		want    float64
	}{
		{
			name:    "product",
			formula: "qty * price",
			data:    map[string]any{"qty": 3, "price": 10},
			deps:    []string{"qty", "price"},
			want:    30,
		},
		{
			name:    "brace tokens",
			formula: "{qty} * {price}",
			data:    map[string]any{"qty": 4, "price": 2.5},
			deps:    []string{"qty", "price"},
			want:    10,
		},
		{
			name:    "precedence",
			formula: "a + b * c",
			data:    map[string]any{"a": 1, "b": 2, "c": 3},
			deps:    []string{"a", "b", "c"},
			want:    7,
		},
		{
			name:    "parentheses",
			formula: "(a + b) * c",
			data:    map[string]any{"a": 1, "b": 2, "c": 3},
			deps:    []string{"a", "b", "c"},
			want:    9,
		},
		{
			name:    "unary minus",
			formula: "-a + 10",
			data:    map[string]any{"a": 4},
			deps:    []string{"a"},
			want:    6,
		},
		{
			name:    "negative dependency value",
			formula: "a * b",
			data:    map[string]any{"a": -2, "b": 3},
			deps:    []string{"a", "b"},
			want:    -6,
		},
		{
			name:    "numeric strings",
			formula: "qty * price",
			data:    map[string]any{"qty": "3", "price": "10"},
			deps:    []string{"qty", "price"},
			want:    30,
		},
		{
			name:    "math round",
			formula: "Math.round(a / b)",
			data:    map[string]any{"a": 7, "b": 2},
			deps:    []string{"a", "b"},
			want:    4,
		},
		{
			name:    "math floor",
			formula: "Math.floor(a / b)",
			data:    map[string]any{"a": 7, "b": 2},
			deps:    []string{"a", "b"},
			want:    3,
		},
		{
			name:    "prefix dependency names",
			formula: "subtotal + total",
			data:    map[string]any{"subtotal": 5, "total": 7},
			deps:    []string{"total", "subtotal"},
			want:    12,
		},
		{
			name:    "dotted dependency path",
			formula: "items.count * 2",
			data:    map[string]any{"items": map[string]any{"count": 6}},
			deps:    []string{"items.count"},
			want:    12,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := formula.Evaluate(tc.formula, tc.data, tc.deps)
			if got != tc.want {
				t.Fatalf("Evaluate(%q) = %v, want %v", tc.formula, got, tc.want)
			}
		})
	}
}

func TestEvaluateUnsatisfiedDeps(t *testing.T) {
	t.Parallel()

	data := map[string]any{"qty": 3, "price": nil, "note": ""}

	if got := formula.Evaluate("qty * price", data, []string{"qty", "price"}); got != 0 {
		t.Fatalf("nil dependency must yield 0, got %v", got)
	}
	if got := formula.Evaluate("qty * 2", data, []string{"qty", "missing"}); got != 0 {
		t.Fatalf("absent dependency must yield 0, got %v", got)
	}
	if got := formula.Evaluate("qty * 2", data, []string{"qty", "note"}); got != 0 {
		t.Fatalf("empty-string dependency must yield 0, got %v", got)
	}
	if got := formula.Evaluate("1 + 1", data, nil); got != 0 {
		t.Fatalf("empty dependency list must yield 0, got %v", got)
	}
}

func TestEvaluateSandboxing(t *testing.T) {
	t.Parallel()

	data := map[string]any{"a": 2}

	// The classic injection probe: everything outside the allow-list is
	// stripped before the expression is parsed.
	if got := formula.Evaluate("{a}; deleteEverything()", data, []string{"a"}); got != 0 {
		t.Fatalf("injection attempt must degrade to 0, got %v", got)
	}
	if got := formula.Evaluate("process.exit(1) + a", data, []string{"a"}); got != 0 {
		t.Fatalf("expected sanitized garbage to fail evaluation, got %v", got)
	}
}

func TestEvaluateDegenerateExpressions(t *testing.T) {
	t.Parallel()

	data := map[string]any{"a": 1, "b": 0}

	if got := formula.Evaluate("a / b", data, []string{"a", "b"}); got != 0 {
		t.Fatalf("division by zero must yield 0, got %v", got)
	}
	if got := formula.Evaluate("a + ", data, []string{"a"}); got != 0 {
		t.Fatalf("truncated expression must yield 0, got %v", got)
	}
	if got := formula.Evaluate("", data, []string{"a"}); got != 0 {
		t.Fatalf("empty formula must yield 0, got %v", got)
	}
	if got := formula.Evaluate("((a)", data, []string{"a"}); got != 0 {
		t.Fatalf("unbalanced parens must yield 0, got %v", got)
	}
}

func TestResolveFallsBackToStoredValue(t *testing.T) {
	t.Parallel()

	data := map[string]any{"qty": 3, "price": "", "total": 42}

	got := formula.Resolve("qty * price", []string{"qty", "price"}, "total", data)
	if got != 42 {
		t.Fatalf("expected stored value fallback, got %v", got)
	}

	data["price"] = 10
	got = formula.Resolve("qty * price", []string{"qty", "price"}, "total", data)
	if got != float64(30) {
		t.Fatalf("expected computed value, got %v", got)
	}

	missing := formula.Resolve("qty * price", []string{"qty", "price"}, "grandTotal",
		map[string]any{"qty": 1})
	if missing != nil {
		t.Fatalf("expected nil fallback when nothing is stored, got %v", missing)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"1 + 2", "1 + 2"},
		{"alert('x') + 1", "() + 1"},
		{"Math.round(2.5)", "Math.round(2.5)"},
		{"window.Math.round(1)", ".Math.round(1)"},
		{"2; drop tables", "2  "},
	}

	for _, tc := range cases {
		if got := formula.Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
