package incident

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"logsift/internal/models"
)

// maxTitleLen bounds the incident title to a prefix of the event message.
const maxTitleLen = 80

// Incident is the payload handed to the ticketing collaborator.
type Incident struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Severity      string `json:"severity"`
	SourceEventID string `json:"source_event_id"`
}

// Ticketer is the narrow interface to the external ticketing system.
// CreateIncident must be safe to call repeatedly and must not block longer
// than the context allows; unresponsiveness is a failure to escalate, not a
// pipeline failure.
type Ticketer interface {
	CreateIncident(ctx context.Context, inc *Incident) (string, error)
	Close() error
}

// Outcome is the result of an escalation attempt, consumed only for
// statistics accounting.
type Outcome int

const (
	// OutcomeDisabled means no ticketing backend is configured; not an error.
	OutcomeDisabled Outcome = iota
	// OutcomeCreated means a ticket was opened and attached to the event.
	OutcomeCreated
	// OutcomeSuppressed means the hourly ceiling was reached or the
	// collaborator failed; the incident was not attempted further.
	OutcomeSuppressed
)

// Escalator decides whether a classified event opens an external incident
// and enforces an hourly ceiling on ticket creation.
type Escalator struct {
	ticketer    Ticketer
	logger      *zap.Logger
	timeout     time.Duration
	hourlyLimit int

	mu          sync.Mutex
	windowStart time.Time
	windowCount int
	now         func() time.Time
}

// NewEscalator creates an Escalator. A nil ticketer disables escalation
// entirely; MaybeEscalate then becomes a no-op returning OutcomeDisabled.
func NewEscalator(t Ticketer, hourlyLimit int, timeout time.Duration, logger *zap.Logger) *Escalator {
	if hourlyLimit <= 0 {
		hourlyLimit = 10
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Escalator{
		ticketer:    t,
		logger:      logger,
		timeout:     timeout,
		hourlyLimit: hourlyLimit,
		now:         time.Now,
	}
}

// Enabled reports whether a ticketing backend is configured.
func (e *Escalator) Enabled() bool {
	return e.ticketer != nil
}

// MaybeEscalate opens an incident for an incident-worthy event. On success
// the ticket id is attached to the event. Failures and rate-limited attempts
// are reported as OutcomeSuppressed and never propagated.
func (e *Escalator) MaybeEscalate(ctx context.Context, ev *models.ClassifiedEvent) Outcome {
	if !e.Enabled() || !ev.Classification.IncidentWorthy {
		return OutcomeDisabled
	}
	if !e.allow() {
		e.logger.Warn("incident escalation suppressed by hourly ceiling",
			zap.String("event_id", ev.ID),
			zap.Int("hourly_limit", e.hourlyLimit))
		return OutcomeSuppressed
	}

	inc := Build(ev)
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ticketID, err := e.ticketer.CreateIncident(callCtx, inc)
	if err != nil || ticketID == "" {
		e.logger.Warn("incident escalation failed",
			zap.String("event_id", ev.ID), zap.Error(err))
		return OutcomeSuppressed
	}

	ev.IncidentRef = ticketID
	return OutcomeCreated
}

// allow consumes one slot of the fixed hourly window, rolling the window
// over once an hour has elapsed since it opened.
func (e *Escalator) allow() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if e.windowStart.IsZero() || now.Sub(e.windowStart) >= time.Hour {
		e.windowStart = now
		e.windowCount = 0
	}
	if e.windowCount >= e.hourlyLimit {
		return false
	}
	e.windowCount++
	return true
}

// Build constructs the incident payload for a classified event.
func Build(ev *models.ClassifiedEvent) *Incident {
	title := ev.Message
	if title == "" {
		title = ev.LogType
	}
	if len(title) > maxTitleLen {
		// Never split a multi-byte rune at the cut point.
		cut := maxTitleLen
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = title[:cut]
	}
	return &Incident{
		Title:         title,
		Description:   ev.Message,
		Severity:      ev.LevelName,
		SourceEventID: ev.ID,
	}
}
