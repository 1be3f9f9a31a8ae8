package i18n

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator is configured at all.
var ErrMissingTranslator = errors.New("i18n: no translator configured")

// Translator resolves a message key for a locale. Implementations decide how
// params are applied; the helpers in this package interpolate {name}
// placeholders when the translator returns them verbatim.
type Translator interface {
	Translate(locale, key string, params ...any) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(locale, key string, params ...any) (string, error)

func (f TranslatorFunc) Translate(locale, key string, params ...any) (string, error) {
	return f(locale, key, params...)
}

// MissingTranslationHandler controls the string returned when a translation
// is missing or fails.
type MissingTranslationHandler func(locale, key string, fallback string, err error) string

func missingDefault(_, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

// Translate resolves key through t, interpolating {name} placeholders from
// params. Resolution is best-effort: a nil translator, an error, or an empty
// result all fall back to the fallback string, and to the key itself when
// the fallback is empty too.
func Translate(t Translator, locale, key, fallback string, params map[string]any) string {
	return TranslateWith(t, locale, key, fallback, params, nil)
}

// TranslateWith is Translate with a custom missing-translation handler.
func TranslateWith(t Translator, locale, key, fallback string, params map[string]any, onMissing MissingTranslationHandler) string {
	if onMissing == nil {
		onMissing = missingDefault
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if t == nil {
		return Interpolate(onMissing(locale, key, fallback, ErrMissingTranslator), params)
	}

	message, err := t.Translate(locale, key)
	if err != nil || strings.TrimSpace(message) == "" {
		return Interpolate(onMissing(locale, key, fallback, err), params)
	}
	return Interpolate(message, params)
}

// Interpolate replaces {name} placeholders with the matching param's string
// form. Placeholders without a param survive untouched so missing data shows
// up in review instead of vanishing.
func Interpolate(message string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(message, "{") {
		return message
	}
	for name, value := range params {
		message = strings.ReplaceAll(message, "{"+name+"}", fmt.Sprint(value))
	}
	return message
}

// labelKeyHint is the Extra key configs use to request a translated label.
const labelKeyHint = "labelKey"

// ResolveLabel translates a config element's label. When the element's Extra
// map carries a labelKey hint, that key resolves through the translator with
// the parsed label as fallback; otherwise the parsed label stands.
func ResolveLabel(t Translator, locale, label string, extra map[string]any) string {
	key, _ := extra[labelKeyHint].(string)
	if strings.TrimSpace(key) == "" {
		return label
	}
	return Translate(t, locale, key, label, nil)
}

// Static is an in-memory Translator backed by locale -> key -> message maps.
// Useful for tests and small embedded catalogs.
type Static map[string]map[string]string

func (s Static) Translate(locale, key string, _ ...any) (string, error) {
	messages, ok := s[locale]
	if !ok {
		return "", fmt.Errorf("i18n: unknown locale %q", locale)
	}
	message, ok := messages[key]
	if !ok {
		return "", fmt.Errorf("i18n: missing key %q for locale %q", key, locale)
	}
	return message, nil
}
