package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Level is the ordered severity scale for incoming log events.
// Higher values are more severe.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
	LevelCritical
	LevelAlert
	LevelEmergency
)

var levelNames = map[Level]string{
	LevelTrace:     "TRACE",
	LevelDebug:     "DEBUG",
	LevelInfo:      "INFO",
	LevelNotice:    "NOTICE",
	LevelWarning:   "WARNING",
	LevelError:     "ERROR",
	LevelCritical:  "CRITICAL",
	LevelAlert:     "ALERT",
	LevelEmergency: "EMERGENCY",
}

var levelValues = map[string]Level{
	"TRACE":     LevelTrace,
	"DEBUG":     LevelDebug,
	"INFO":      LevelInfo,
	"NOTICE":    LevelNotice,
	"WARNING":   LevelWarning,
	"ERROR":     LevelError,
	"CRITICAL":  LevelCritical,
	"ALERT":     LevelAlert,
	"EMERGENCY": LevelEmergency,
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "INFO"
}

// ParseLevel converts a level name to its Level value.
// Unknown names fall back to INFO, the submission default.
func ParseLevel(s string) Level {
	if lvl, ok := levelValues[normalize(s)]; ok {
		return lvl
	}
	return LevelInfo
}

// AccessTier is the confidentiality level assigned during classification.
// Higher values gate read access more strictly.
type AccessTier int

const (
	TierPublic AccessTier = iota
	TierAuthenticated
	TierPrivileged
	TierRestricted
	TierConfidential
)

var tierNames = map[AccessTier]string{
	TierPublic:        "PUBLIC",
	TierAuthenticated: "AUTHENTICATED",
	TierPrivileged:    "PRIVILEGED",
	TierRestricted:    "RESTRICTED",
	TierConfidential:  "CONFIDENTIAL",
}

func (t AccessTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "PUBLIC"
}

// Category is the on-disk storage category for a classified event.
type Category string

const (
	CategoryApplication Category = "application"
	CategorySecurity    Category = "security"
	CategoryNetwork     Category = "network"
	CategoryPerformance Category = "performance"
)

// LogEvent is the immutable input to the pipeline. It is created at the
// call boundary and never mutated after submission.
type LogEvent struct {
	ID            string         `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	Level         Level          `json:"-"`
	Source        string         `json:"source"`
	LogType       string         `json:"log_type"`
	Message       string         `json:"message"`
	Details       map[string]any `json:"details,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
	SessionID     string         `json:"session_id,omitempty"`
	IPAddress     string         `json:"ip_address,omitempty"`
	UserAgent     string         `json:"user_agent,omitempty"`
}

// NewLogEvent builds a LogEvent from the loosely-typed map accepted at the
// ingestion boundary, applying submission defaults for absent fields.
// Containers are always freshly allocated, never shared between events.
func NewLogEvent(fields map[string]any) *LogEvent {
	ev := &LogEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Level:     LevelInfo,
		Source:    "SYSTEM",
		LogType:   "SYSTEM_EVENT",
		Details:   make(map[string]any),
	}

	if id, ok := fields["id"].(string); ok && id != "" {
		ev.ID = id
	}
	switch ts := fields["timestamp"].(type) {
	case time.Time:
		if !ts.IsZero() {
			ev.Timestamp = ts
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			ev.Timestamp = parsed
		}
	}
	if lvl, ok := fields["level"].(string); ok && lvl != "" {
		ev.Level = ParseLevel(lvl)
	}
	if src, ok := fields["source"].(string); ok && src != "" {
		ev.Source = src
	}
	if lt, ok := fields["log_type"].(string); ok && lt != "" {
		ev.LogType = lt
	}
	if msg, ok := fields["message"].(string); ok {
		ev.Message = msg
	}
	if details, ok := fields["details"].(map[string]any); ok {
		for k, v := range details {
			ev.Details[k] = v
		}
	}
	if v, ok := fields["correlation_id"].(string); ok {
		ev.CorrelationID = v
	}
	if v, ok := fields["user_id"].(string); ok {
		ev.UserID = v
	}
	if v, ok := fields["session_id"].(string); ok {
		ev.SessionID = v
	}
	if v, ok := fields["ip_address"].(string); ok {
		ev.IPAddress = v
	}
	if v, ok := fields["user_agent"].(string); ok {
		ev.UserAgent = v
	}
	return ev
}

// Classification summarizes the decisions made for one event.
type Classification struct {
	AutoClassified   bool    `json:"auto_classified"`
	HasSensitiveData bool    `json:"has_sensitive_data"`
	HasPII           bool    `json:"has_pii"`
	IncidentWorthy   bool    `json:"incident_worthy"`
	RiskScore        float64 `json:"risk_score"`
}

// ClassifiedEvent is produced exactly once per LogEvent. It is mutable only
// while the current batch is being processed and becomes immutable once
// persisted. ClassifiedEvent never reenters the ingestion queue.
type ClassifiedEvent struct {
	LogEvent

	LevelName      string         `json:"level"`
	AccessTier     AccessTier     `json:"-"`
	AccessTierName string         `json:"access_tier"`
	Tags           []string       `json:"tags"`
	Masked         bool           `json:"sensitive_data_masked"`
	Classification Classification `json:"classification"`
	IncidentRef    string         `json:"incident_ref,omitempty"`
}
