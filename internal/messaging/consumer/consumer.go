package consumer

import (
	"context"
	"errors"

	"logsift/internal/models"
)

// ErrMessageDiscarded reports a message that was dropped and acknowledged
// because it could not be decoded. The source is still healthy; callers
// should keep consuming without backing off.
var ErrMessageDiscarded = errors.New("consumer: undecodable message discarded")

// Consumer defines the interface for message-queue ingestion sources.
type Consumer interface {
	// Consume blocks until an event is received or the context is cancelled.
	// It returns the event, an acknowledgement callback, and any error that
	// occurred. The ack callback: ack(true) for successful submission
	// (message will be committed); ack(false) for temporary failure
	// (message will be redelivered).
	Consume(ctx context.Context) (ev *models.LogEvent, ack func(success bool), err error)

	// Close gracefully shuts down the consumer connection.
	Close() error
}
