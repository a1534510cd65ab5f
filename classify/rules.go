package classify

import (
	"sort"
	"strings"

	"logsift/config"
	"logsift/internal/models"
)

// RuleSet is the compiled classification rule set. It is immutable after
// Compile and safe for concurrent use.
type RuleSet struct {
	levelRules        []levelRule // ordered most severe first
	sensitiveKeywords []string    // lowercased
	piiKeywords       []string    // lowercased
	marker            string
}

type levelRule struct {
	level    models.Level
	keywords []string
}

// Compile builds a RuleSet from the rules configuration. Keywords are
// lowercased once here; all matching is case-insensitive.
func Compile(cfg config.RulesConfig) *RuleSet {
	rs := &RuleSet{
		sensitiveKeywords: lowerAll(cfg.SensitiveKeywords),
		piiKeywords:       lowerAll(cfg.PIIKeywords),
		marker:            cfg.RedactionMarker,
	}
	if rs.marker == "" {
		rs.marker = "[REDACTED]"
	}

	for name, keywords := range cfg.LevelKeywords {
		rs.levelRules = append(rs.levelRules, levelRule{
			level:    models.ParseLevel(name),
			keywords: lowerAll(keywords),
		})
	}
	sort.Slice(rs.levelRules, func(i, j int) bool {
		return rs.levelRules[i].level > rs.levelRules[j].level
	})
	return rs
}

// MatchLevel returns the most severe level whose keywords appear in the
// message, and whether any rule matched at all. Only levels strictly more
// severe than INFO can be returned.
func (rs *RuleSet) MatchLevel(message string) (models.Level, bool) {
	lower := strings.ToLower(message)
	for _, rule := range rs.levelRules {
		if rule.level <= models.LevelInfo {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.level, true
			}
		}
	}
	return models.LevelInfo, false
}

// ContainsSensitive reports whether any sensitive keyword appears in the text.
func (rs *RuleSet) ContainsSensitive(text string) bool {
	return containsAny(strings.ToLower(text), rs.sensitiveKeywords)
}

// ContainsPII reports whether any PII keyword appears in the text.
func (rs *RuleSet) ContainsPII(text string) bool {
	return containsAny(strings.ToLower(text), rs.piiKeywords)
}

// Marker returns the redaction marker inserted by masking.
func (rs *RuleSet) Marker() string {
	return rs.marker
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
