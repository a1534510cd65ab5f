package classify

import "strings"

// Masker redacts sensitive content from messages and detail maps.
// Masking is idempotent: a masked message no longer contains any sensitive
// keyword, and a masked detail value is replaced wholesale by the marker.
type Masker struct {
	rules *RuleSet
}

// NewMasker creates a Masker backed by the given rule set.
func NewMasker(rules *RuleSet) *Masker {
	return &Masker{rules: rules}
}

// MaskMessage truncates the message at the earliest case-insensitive
// occurrence of a sensitive keyword and replaces everything from there to the
// end with the redaction marker. Returns the masked message and whether any
// redaction happened.
func (m *Masker) MaskMessage(message string) (string, bool) {
	lower := strings.ToLower(message)
	cut := -1
	for _, kw := range m.rules.sensitiveKeywords {
		if idx := strings.Index(lower, kw); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut < 0 {
		return message, false
	}
	return message[:cut] + m.rules.marker, true
}

// MaskDetails replaces, in place, the value of every key whose name contains
// a sensitive keyword with the redaction marker, descending into nested maps.
// Slice values are left as-is. Returns whether any value was redacted.
func (m *Masker) MaskDetails(details map[string]any) bool {
	masked := false
	for key, value := range details {
		if containsAny(strings.ToLower(key), m.rules.sensitiveKeywords) {
			details[key] = m.rules.marker
			masked = true
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			if m.MaskDetails(nested) {
				masked = true
			}
		}
	}
	return masked
}
