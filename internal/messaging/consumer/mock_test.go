package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"logsift/internal/models"
)

func TestMockConsumerDeliversAndRequeuesOnNack(t *testing.T) {
	ev := models.NewLogEvent(map[string]any{"message": "hello"})
	mc := NewMockConsumer([]*models.LogEvent{ev}, zaptest.NewLogger(t))

	got, ack, err := mc.Consume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ev.ID, got.ID)

	// Nack puts the event back for redelivery.
	ack(false)
	again, ack, err := mc.Consume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ev.ID, again.ID)
	ack(true)

	// Nothing left: Consume blocks until the context expires.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err = mc.Consume(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
