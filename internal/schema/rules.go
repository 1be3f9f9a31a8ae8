package schema

import "strings"

// ruleKeywords is the recognition order for keyword-shaped raw rules. A raw
// rule object may declare several recognized keywords at once (e.g. both min
// and max); only the first match in this order is kept and the rest are
// silently dropped. Authors who want both bounds declare two rule entries.
var ruleKeywords = []RuleType{
	RuleRequired,
	RuleMin,
	RuleMax,
	RuleMinLength,
	RuleMaxLength,
	RulePattern,
	RuleEmail,
	RuleURL,
	RuleMatch,
	RuleCustom,
}

// normalizeRule collapses a raw rule object into the canonical
// {type, value?, message?} shape. Two raw forms are accepted: the canonical
// shape itself (so normalized configs re-parse unchanged) and the keyword
// shape, where the rule kind and its value share a key ({"min": 5}). Rules
// without a recognizable kind are dropped; the validator reports them.
func normalizeRule(raw map[string]any) (ValidationRule, bool) {
	message := strings.TrimSpace(asString(raw["message"]))

	if ruleType := RuleType(strings.TrimSpace(asString(raw["type"]))); ruleType != "" {
		return coerceRule(ruleType, raw["value"], message)
	}

	for _, ruleType := range ruleKeywords {
		value, declared := raw[string(ruleType)]
		if !declared {
			continue
		}
		// required:false and friends declare the absence of a rule.
		if enabled, isBool := value.(bool); isBool && !enabled {
			continue
		}
		return coerceRule(ruleType, value, message)
	}
	return ValidationRule{}, false
}

func coerceRule(ruleType RuleType, value any, message string) (ValidationRule, bool) {
	rule := ValidationRule{Type: ruleType, Message: message}

	switch ruleType {
	case RuleMin, RuleMax, RuleMinLength, RuleMaxLength:
		if number, ok := asFloat(value); ok {
			rule.Value = number
		}
	case RulePattern, RuleMatch:
		if text := strings.TrimSpace(asString(value)); text != "" {
			rule.Value = text
		}
	case RuleRequired, RuleEmail, RuleURL:
		// Presence-only kinds carry no value.
	default:
		if value != nil {
			if _, isBool := value.(bool); !isBool {
				rule.Value = DeepClone(value)
			}
		}
	}
	return rule, true
}
