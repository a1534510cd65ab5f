package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"logsift/internal/models"
)

func classifiedEvent(level models.Level, source, logType string) *models.ClassifiedEvent {
	return &models.ClassifiedEvent{
		LogEvent: models.LogEvent{
			ID:        "ev-" + logType,
			Timestamp: time.Now().UTC(),
			Level:     level,
			Source:    source,
			LogType:   logType,
			Message:   "message",
		},
		LevelName:      level.String(),
		AccessTierName: "AUTHENTICATED",
	}
}

func TestCategorizePrecedence(t *testing.T) {
	cases := []struct {
		name string
		ev   *models.ClassifiedEvent
		want models.Category
	}{
		{"security source", classifiedEvent(models.LevelInfo, "SECURITY", "USER_ACTION"), models.CategorySecurity},
		{"security type", classifiedEvent(models.LevelInfo, "API", "security"), models.CategorySecurity},
		{"critical severity", classifiedEvent(models.LevelCritical, "API", "API_REQUEST"), models.CategorySecurity},
		{"alert severity", classifiedEvent(models.LevelAlert, "API", "API_REQUEST"), models.CategorySecurity},
		{"emergency severity", classifiedEvent(models.LevelEmergency, "API", "API_REQUEST"), models.CategorySecurity},
		{"performance type", classifiedEvent(models.LevelInfo, "API", "PERFORMANCE"), models.CategoryPerformance},
		{"network source", classifiedEvent(models.LevelInfo, "NETWORK", "API_REQUEST"), models.CategoryNetwork},
		{"default", classifiedEvent(models.LevelInfo, "API", "API_REQUEST"), models.CategoryApplication},
		// SECURITY wins over PERFORMANCE when both would match.
		{"security beats performance", classifiedEvent(models.LevelCritical, "API", "PERFORMANCE"), models.CategorySecurity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Categorize(tc.ev))
		})
	}
}

func TestPersistAppendsJSONLines(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, "jsonl", zaptest.NewLogger(t))
	defer s.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Persist(classifiedEvent(models.LevelInfo, "API", "API_REQUEST")))
	}

	date := time.Now().UTC().Format("2006-01-02")
	path := filepath.Join(dir, "application", date+".jsonl")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		assert.Equal(t, "application", rec["category"])
		assert.Equal(t, "message", rec["message"])
	}
}

func TestPersistRoutesCategoriesToSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, "jsonl", zaptest.NewLogger(t))
	defer s.Close()

	require.NoError(t, s.Persist(classifiedEvent(models.LevelInfo, "SECURITY", "USER_ACTION")))
	require.NoError(t, s.Persist(classifiedEvent(models.LevelInfo, "NETWORK", "API_REQUEST")))
	require.NoError(t, s.Persist(classifiedEvent(models.LevelInfo, "API", "API_REQUEST")))

	date := time.Now().UTC().Format("2006-01-02")
	for _, category := range []string{"security", "network", "application"} {
		_, err := os.Stat(filepath.Join(dir, category, date+".jsonl"))
		assert.NoError(t, err, "category %s", category)
	}
}

func TestNewDayOpensNewTarget(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, "jsonl", zaptest.NewLogger(t))
	defer s.Close()

	day1 := time.Date(2026, 8, 25, 23, 59, 0, 0, time.UTC)
	day2 := day1.Add(2 * time.Minute)

	s.now = func() time.Time { return day1 }
	require.NoError(t, s.Persist(classifiedEvent(models.LevelInfo, "API", "API_REQUEST")))

	s.now = func() time.Time { return day2 }
	require.NoError(t, s.Persist(classifiedEvent(models.LevelInfo, "API", "API_REQUEST")))

	first, err := os.ReadFile(filepath.Join(dir, "application", "2026-08-25.jsonl"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "application", "2026-08-26.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(first), "\n"))
	assert.Equal(t, 1, strings.Count(string(second), "\n"))
}

func TestPersistReportsWriteFailure(t *testing.T) {
	// A file where the category directory should be makes MkdirAll fail.
	dir := t.TempDir()
	base := filepath.Join(dir, "base")
	require.NoError(t, os.WriteFile(base, []byte("not a dir"), 0o644))

	s := NewFileStore(base, "jsonl", zaptest.NewLogger(t))
	defer s.Close()

	err := s.Persist(classifiedEvent(models.LevelInfo, "API", "API_REQUEST"))
	assert.Error(t, err)
}
