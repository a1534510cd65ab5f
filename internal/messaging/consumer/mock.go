package consumer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"logsift/internal/models"
)

// MockConsumer serves events from an in-memory channel. Used for tests and
// local runs without a broker. Nacked events are re-queued.
type MockConsumer struct {
	logger *zap.Logger
	events chan *models.LogEvent
}

// NewMockConsumer creates a MockConsumer preloaded with the given events.
func NewMockConsumer(events []*models.LogEvent, logger *zap.Logger) *MockConsumer {
	mc := &MockConsumer{
		logger: logger,
		events: make(chan *models.LogEvent, len(events)+16),
	}
	for _, ev := range events {
		mc.events <- ev
	}
	return mc
}

// Add queues one more event for consumption.
func (m *MockConsumer) Add(ev *models.LogEvent) {
	m.events <- ev
}

// Consume reads the next queued event.
func (m *MockConsumer) Consume(ctx context.Context) (ev *models.LogEvent, ack func(success bool), err error) {
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case ev := <-m.events:
		if ev == nil {
			return nil, nil, errors.New("event channel closed")
		}
		ackCallback := func(success bool) {
			if success {
				return
			}
			select {
			case m.events <- ev:
				m.logger.Debug("mock consumer: event re-queued", zap.String("event_id", ev.ID))
			default:
				m.logger.Warn("mock consumer: failed to re-queue event", zap.String("event_id", ev.ID))
			}
		}
		return ev, ackCallback, nil
	}
}

// Close closes the event channel.
func (m *MockConsumer) Close() error {
	close(m.events)
	return nil
}

var _ Consumer = (*MockConsumer)(nil)
