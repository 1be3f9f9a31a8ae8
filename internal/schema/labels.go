package schema

import (
	"regexp"
	"strings"
)

var labelSeparatorPattern = regexp.MustCompile(`[_\-.\s]+`)

// Humanize derives a display label from a field or column key: separators and
// camelCase boundaries split words, each word is title-cased, and the result
// joins with spaces ("isActive" -> "Is Active", "contact_name" ->
// "Contact Name").
func Humanize(key string) string {
	if key == "" {
		return ""
	}

	var words []string
	for _, chunk := range labelSeparatorPattern.Split(key, -1) {
		if chunk == "" {
			continue
		}
		for _, word := range splitCamelBoundaries(chunk) {
			words = append(words, titleWord(word))
		}
	}
	return strings.Join(words, " ")
}

func splitCamelBoundaries(input string) []string {
	var words []string
	start := 0
	runes := []rune(input)
	for i := 1; i < len(runes); i++ {
		if camelBoundary(runes[i-1], runes[i]) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))
	return words
}

func camelBoundary(prev, current rune) bool {
	switch {
	case isLower(prev) && isUpper(current):
		return true
	case isLetter(prev) && isDigit(current):
		return true
	case isDigit(prev) && isLetter(current):
		return true
	default:
		return false
	}
}

func titleWord(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

var slugInvalidPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a stable identifier from a section title: lower-cased with
// runs of non-alphanumerics collapsed into single dashes.
func Slugify(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))
	slug := slugInvalidPattern.ReplaceAllString(lowered, "-")
	return strings.Trim(slug, "-")
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }
