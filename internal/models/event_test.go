package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogEventDefaults(t *testing.T) {
	before := time.Now().UTC()
	ev := NewLogEvent(map[string]any{})

	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.Before(before))
	assert.Equal(t, LevelInfo, ev.Level)
	assert.Equal(t, "SYSTEM", ev.Source)
	assert.Equal(t, "SYSTEM_EVENT", ev.LogType)
	assert.Empty(t, ev.Message)
	require.NotNil(t, ev.Details)
	assert.Empty(t, ev.Details)
}

func TestNewLogEventAllocatesFreshContainers(t *testing.T) {
	a := NewLogEvent(map[string]any{})
	b := NewLogEvent(map[string]any{})

	a.Details["k"] = "v"
	assert.Empty(t, b.Details)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewLogEventCopiesRecognizedFields(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ev := NewLogEvent(map[string]any{
		"id":             "fixed-id",
		"timestamp":      ts,
		"level":          "critical",
		"source":         "PAYMENTS",
		"log_type":       "SECURITY",
		"message":        "card declined",
		"details":        map[string]any{"code": "51"},
		"correlation_id": "corr-1",
		"user_id":        "u-1",
		"session_id":     "s-1",
		"ip_address":     "10.0.0.1",
		"user_agent":     "curl/8.0",
	})

	assert.Equal(t, "fixed-id", ev.ID)
	assert.Equal(t, ts, ev.Timestamp)
	assert.Equal(t, LevelCritical, ev.Level)
	assert.Equal(t, "PAYMENTS", ev.Source)
	assert.Equal(t, "SECURITY", ev.LogType)
	assert.Equal(t, "card declined", ev.Message)
	assert.Equal(t, "51", ev.Details["code"])
	assert.Equal(t, "corr-1", ev.CorrelationID)
	assert.Equal(t, "u-1", ev.UserID)
	assert.Equal(t, "s-1", ev.SessionID)
	assert.Equal(t, "10.0.0.1", ev.IPAddress)
	assert.Equal(t, "curl/8.0", ev.UserAgent)
}

func TestNewLogEventParsesStringTimestamp(t *testing.T) {
	ev := NewLogEvent(map[string]any{"timestamp": "2026-08-01T12:00:00Z"})
	assert.Equal(t, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), ev.Timestamp)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelEmergency, ParseLevel("EMERGENCY"))
	assert.Equal(t, LevelWarning, ParseLevel("warning"))
	assert.Equal(t, LevelDebug, ParseLevel(" debug "))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}

func TestLevelOrdering(t *testing.T) {
	assert.True(t, LevelTrace < LevelDebug)
	assert.True(t, LevelDebug < LevelInfo)
	assert.True(t, LevelInfo < LevelNotice)
	assert.True(t, LevelNotice < LevelWarning)
	assert.True(t, LevelWarning < LevelError)
	assert.True(t, LevelError < LevelCritical)
	assert.True(t, LevelCritical < LevelAlert)
	assert.True(t, LevelAlert < LevelEmergency)
}

func TestAccessTierOrdering(t *testing.T) {
	assert.True(t, TierPublic < TierAuthenticated)
	assert.True(t, TierAuthenticated < TierPrivileged)
	assert.True(t, TierPrivileged < TierRestricted)
	assert.True(t, TierRestricted < TierConfidential)
}
