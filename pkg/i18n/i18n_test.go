package i18n

import (
	"errors"
	"testing"
)

var catalog = Static{
	"en": {
		"form.submit":    "Submit",
		"field.required": "{label} is required",
	},
	"es": {
		"form.submit": "Enviar",
	},
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	if got := Translate(catalog, "es", "form.submit", "Submit", nil); got != "Enviar" {
		t.Fatalf("got %q", got)
	}
	if got := Translate(catalog, "en", "field.required", "", map[string]any{"label": "Email"}); got != "Email is required" {
		t.Fatalf("got %q", got)
	}

	// Missing key falls back, then to the key itself.
	if got := Translate(catalog, "en", "missing.key", "Fallback", nil); got != "Fallback" {
		t.Fatalf("got %q", got)
	}
	if got := Translate(catalog, "en", "missing.key", "", nil); got != "missing.key" {
		t.Fatalf("got %q", got)
	}

	// Nil translator behaves like a missing translation.
	if got := Translate(nil, "en", "form.submit", "Submit", nil); got != "Submit" {
		t.Fatalf("got %q", got)
	}
	// Empty key never consults the translator.
	if got := Translate(catalog, "en", "  ", "Fallback", nil); got != "Fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestTranslateWithHandler(t *testing.T) {
	t.Parallel()

	var seen error
	handler := func(_, key, _ string, err error) string {
		seen = err
		return "[" + key + "]"
	}

	if got := TranslateWith(nil, "en", "a.key", "", nil, handler); got != "[a.key]" {
		t.Fatalf("got %q", got)
	}
	if !errors.Is(seen, ErrMissingTranslator) {
		t.Fatalf("err = %v", seen)
	}
}

func TestTranslatorFunc(t *testing.T) {
	t.Parallel()

	upper := TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		return locale + ":" + key, nil
	})
	if got := Translate(upper, "fr", "any.key", "", nil); got != "fr:any.key" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	got := Interpolate("Showing {from}-{to} of {total}", map[string]any{
		"from": 11, "to": 20, "total": 54,
	})
	if got != "Showing 11-20 of 54" {
		t.Fatalf("got %q", got)
	}

	// Unknown placeholders survive.
	if got := Interpolate("Hello {name}", nil); got != "Hello {name}" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveLabel(t *testing.T) {
	t.Parallel()

	extra := map[string]any{"labelKey": "form.submit"}
	if got := ResolveLabel(catalog, "es", "Submit", extra); got != "Enviar" {
		t.Fatalf("got %q", got)
	}
	if got := ResolveLabel(catalog, "en", "Plain", nil); got != "Plain" {
		t.Fatalf("got %q", got)
	}
	if got := ResolveLabel(catalog, "en", "Kept", map[string]any{"labelKey": "missing"}); got != "Kept" {
		t.Fatalf("got %q", got)
	}
}
