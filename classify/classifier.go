package classify

import (
	"fmt"
	"strings"

	"logsift/internal/models"
)

// Classifier derives severity, access tier, tags, masking, and
// incident-worthiness for one event. It performs no I/O and never blocks.
type Classifier struct {
	rules  *RuleSet
	masker *Masker
}

// New creates a Classifier backed by the given rule set.
func New(rules *RuleSet) *Classifier {
	return &Classifier{
		rules:  rules,
		masker: NewMasker(rules),
	}
}

// riskScores maps each severity to its [0,1] risk proxy. Values are strictly
// increasing through the severity ordering.
var riskScores = map[models.Level]float64{
	models.LevelTrace:     0.05,
	models.LevelDebug:     0.10,
	models.LevelInfo:      0.20,
	models.LevelNotice:    0.30,
	models.LevelWarning:   0.45,
	models.LevelError:     0.60,
	models.LevelCritical:  0.80,
	models.LevelAlert:     0.90,
	models.LevelEmergency: 1.0,
}

// RiskScore returns the risk score for a severity level.
func RiskScore(level models.Level) float64 {
	if score, ok := riskScores[level]; ok {
		return score
	}
	return riskScores[models.LevelInfo]
}

// TierFor returns the access tier assigned to a severity level.
func TierFor(level models.Level) models.AccessTier {
	switch level {
	case models.LevelEmergency, models.LevelAlert:
		return models.TierConfidential
	case models.LevelCritical:
		return models.TierRestricted
	case models.LevelError, models.LevelWarning:
		return models.TierPrivileged
	default:
		return models.TierAuthenticated
	}
}

// IncidentWorthy reports whether a severity level warrants an external
// incident. CRITICAL, ALERT and EMERGENCY are the sole trigger levels.
func IncidentWorthy(level models.Level) bool {
	return level >= models.LevelCritical
}

// Classify produces the ClassifiedEvent for one LogEvent. The input event is
// never mutated; the detail map is deep-copied before masking. Any internal
// fault is recovered: the event is classified with defaults as if no rule
// matched, and fault is returned true so the caller can account the error.
func (c *Classifier) Classify(ev *models.LogEvent) (classified *models.ClassifiedEvent, fault bool) {
	defer func() {
		if r := recover(); r != nil {
			classified = c.fallback(ev)
			fault = true
		}
	}()

	level := ev.Level
	promoted := false
	if level == models.LevelInfo {
		if match, ok := c.rules.MatchLevel(ev.Message); ok {
			level = match
			promoted = true
		}
	}

	message := ev.Message
	details := copyDetails(ev.Details)
	searchText := message + " " + serializeDetails(details)

	hasSensitive := c.rules.ContainsSensitive(searchText)
	masked := false
	if hasSensitive {
		message, _ = c.masker.MaskMessage(message)
		c.masker.MaskDetails(details)
		masked = true
	}

	hasPII := c.rules.ContainsPII(searchText)

	out := &models.ClassifiedEvent{
		LogEvent:       *ev,
		LevelName:      level.String(),
		AccessTier:     TierFor(level),
		Tags:           generateTags(ev, level),
		Masked:         masked,
		Classification: models.Classification{
			AutoClassified:   promoted,
			HasSensitiveData: hasSensitive,
			HasPII:           hasPII,
			IncidentWorthy:   IncidentWorthy(level),
			RiskScore:        RiskScore(level),
		},
	}
	out.Level = level
	out.Message = message
	out.Details = details
	out.AccessTierName = out.AccessTier.String()
	return out, false
}

// fallback classifies an event as if no rule matched, used when
// classification of the event itself faulted.
func (c *Classifier) fallback(ev *models.LogEvent) *models.ClassifiedEvent {
	out := &models.ClassifiedEvent{
		LogEvent:   *ev,
		LevelName:  ev.Level.String(),
		AccessTier: TierFor(ev.Level),
		Tags:       generateTags(ev, ev.Level),
		Classification: models.Classification{
			IncidentWorthy: IncidentWorthy(ev.Level),
			RiskScore:      RiskScore(ev.Level),
		},
	}
	out.Details = copyDetails(ev.Details)
	out.AccessTierName = out.AccessTier.String()
	return out
}

// conditionalTags are emitted when the term appears anywhere in the message.
var conditionalTags = []string{"database", "authentication", "error"}

func generateTags(ev *models.LogEvent, level models.Level) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0, 4)
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	add("source:" + strings.ToLower(ev.Source))
	add("type:" + strings.ToLower(ev.LogType))
	add("level:" + strings.ToLower(level.String()))

	lowerMsg := strings.ToLower(ev.Message)
	for _, term := range conditionalTags {
		if strings.Contains(lowerMsg, term) {
			add(term)
		}
	}
	return tags
}

// copyDetails deep-copies a detail map so masking never touches the caller's
// data. Nested maps are copied recursively; other values are shared.
func copyDetails(details map[string]any) map[string]any {
	out := make(map[string]any, len(details))
	for k, v := range details {
		if nested, ok := v.(map[string]any); ok {
			out[k] = copyDetails(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func serializeDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	return fmt.Sprint(details)
}
