package incident

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockTicketer records incidents in memory. Used in tests and local runs
// where no external ticketing system is reachable.
type MockTicketer struct {
	mu        sync.Mutex
	incidents map[string]*Incident
	failWith  error
}

// NewMockTicketer creates an empty MockTicketer.
func NewMockTicketer() *MockTicketer {
	return &MockTicketer{incidents: make(map[string]*Incident)}
}

// FailWith makes every subsequent CreateIncident call return err.
func (m *MockTicketer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// CreateIncident stores the incident and returns a generated ticket id.
func (m *MockTicketer) CreateIncident(_ context.Context, inc *Incident) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return "", m.failWith
	}
	id := uuid.NewString()
	m.incidents[id] = inc
	return id, nil
}

// Incidents returns a copy of all stored incidents keyed by ticket id.
func (m *MockTicketer) Incidents() map[string]*Incident {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*Incident, len(m.incidents))
	for id, inc := range m.incidents {
		out[id] = inc
	}
	return out
}

// Close is a no-op.
func (m *MockTicketer) Close() error { return nil }

var _ Ticketer = (*MockTicketer)(nil)
