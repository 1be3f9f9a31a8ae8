package schema

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextOnce   sync.Once
	richTextPolicy *bluemonday.Policy
)

func richText() *bluemonday.Policy {
	richTextOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "i", "em", "strong", "code", "br")
		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		richTextPolicy = policy
	})
	return richTextPolicy
}

// SanitizeRichText strips config-supplied HTML down to a small inline
// formatting allow-list: b, i, em, strong, code, br, and links with safe
// URLs. Script, style, and event-handler content never survives.
func SanitizeRichText(input string) string {
	if input == "" {
		return ""
	}
	return richText().Sanitize(input)
}
