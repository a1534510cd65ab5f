package pipeline

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time, read-only view of pipeline statistics.
// Safe to request concurrently from any state.
type Snapshot struct {
	LogsProcessed       int64      `json:"logs_processed"`
	IncidentsCreated    int64      `json:"incidents_created"`
	IncidentsSuppressed int64      `json:"incidents_suppressed"`
	Errors              int64      `json:"errors"`
	QueueSize           int        `json:"queue_size"`
	TicketingEnabled    bool       `json:"ticketing_enabled"`
	LastProcessed       *time.Time `json:"last_processed,omitempty"`
}

// stats holds the pipeline's aggregate counters. All mutation happens under
// the mutex so concurrent snapshot reads never tear.
type stats struct {
	mu                  sync.Mutex
	logsProcessed       int64
	incidentsCreated    int64
	incidentsSuppressed int64
	errors              int64
	lastProcessed       time.Time
}

func (s *stats) markProcessed(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logsProcessed++
	s.lastProcessed = at
}

func (s *stats) incIncidentsCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidentsCreated++
}

func (s *stats) incIncidentsSuppressed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidentsSuppressed++
}

func (s *stats) incErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors++
}

func (s *stats) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		LogsProcessed:       s.logsProcessed,
		IncidentsCreated:    s.incidentsCreated,
		IncidentsSuppressed: s.incidentsSuppressed,
		Errors:              s.errors,
	}
	if !s.lastProcessed.IsZero() {
		last := s.lastProcessed
		snap.LastProcessed = &last
	}
	return snap
}
