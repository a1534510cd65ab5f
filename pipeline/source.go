package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"logsift/internal/messaging/consumer"
)

// consumeRetryDelay is how long the source loop backs off after a real
// consumer error before trying again.
const consumeRetryDelay = 5 * time.Second

// RunSource pulls events from a message-queue consumer and submits them to
// the pipeline until the context is cancelled or the pipeline stops.
// A full queue nacks the message so the broker redelivers it later.
func RunSource(ctx context.Context, c consumer.Consumer, p *Pipeline, logger *zap.Logger) {
	for {
		ev, ack, err := c.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Info("source loop stopping", zap.Error(ctx.Err()))
				return
			}
			if errors.Is(err, consumer.ErrMessageDiscarded) {
				// The bad message is already acknowledged; the source is
				// healthy, so keep consuming at full speed.
				logger.Warn("skipping discarded message", zap.Error(err))
				continue
			}
			logger.Warn("consumer error", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(consumeRetryDelay):
			}
			continue
		}

		switch submitErr := p.Submit(ev); {
		case submitErr == nil:
			ack(true)
		case errors.Is(submitErr, ErrNotRunning):
			ack(false)
			logger.Info("source loop stopping: pipeline not running")
			return
		default:
			// Queue saturated: leave the message uncommitted for redelivery.
			ack(false)
		}
	}
}
