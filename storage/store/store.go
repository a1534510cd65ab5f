package store

import (
	"strings"

	"logsift/internal/models"
)

// Store persists classified events durably. Persist appends the event as one
// self-describing record to its storage category; write failures are
// degraded-mode conditions, not fatal ones.
type Store interface {
	Persist(ev *models.ClassifiedEvent) error
	Close() error
}

// Categorize selects the single storage category for a classified event.
// Precedence: SECURITY, then PERFORMANCE, then NETWORK, then APPLICATION.
func Categorize(ev *models.ClassifiedEvent) models.Category {
	switch {
	case strings.EqualFold(ev.Source, "SECURITY"),
		strings.EqualFold(ev.LogType, "SECURITY"),
		ev.Level >= models.LevelCritical:
		return models.CategorySecurity
	case strings.EqualFold(ev.LogType, "PERFORMANCE"):
		return models.CategoryPerformance
	case strings.EqualFold(ev.Source, "NETWORK"):
		return models.CategoryNetwork
	default:
		return models.CategoryApplication
	}
}
