package config

// RulesConfig defines the static classification rule set: keyword-driven
// level promotion, sensitive-data keywords, and PII keywords. Every list can
// be extended or replaced from the YAML file; empty sections fall back to
// the built-in defaults.
type RulesConfig struct {
	// LevelKeywords maps a severity level name to the message keywords that
	// promote a default-level event to that severity.
	LevelKeywords     map[string][]string `yaml:"level_keywords"`
	SensitiveKeywords []string            `yaml:"sensitive_keywords"`
	PIIKeywords       []string            `yaml:"pii_keywords"`
	RedactionMarker   string              `yaml:"redaction_marker"`
}

// SetDefaults sets the built-in rule set for any section left empty
func (c *RulesConfig) SetDefaults() {
	if len(c.LevelKeywords) == 0 {
		c.LevelKeywords = map[string][]string{
			"WARNING":   {"deprecated", "slow query", "high latency"},
			"ERROR":     {"error", "failed", "exception", "timeout"},
			"CRITICAL":  {"fatal", "panic", "data loss", "corruption"},
			"ALERT":     {"breach", "intrusion", "unauthorized access"},
			"EMERGENCY": {"system_down", "outage", "total failure"},
		}
	}
	if len(c.SensitiveKeywords) == 0 {
		c.SensitiveKeywords = []string{"password", "token", "key", "secret", "api_key"}
	}
	if len(c.PIIKeywords) == 0 {
		c.PIIKeywords = []string{"ssn", "credit_card", "email", "phone", "address", "date_of_birth"}
	}
	if c.RedactionMarker == "" {
		c.RedactionMarker = "[REDACTED]"
	}
}
