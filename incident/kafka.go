package incident

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"logsift/config"
)

// kafkaRecord is the message published to the ticketing bridge topic.
type kafkaRecord struct {
	TicketID string `json:"ticket_id"`
	*Incident
}

// KafkaTicketer publishes incidents to a Kafka topic consumed by a
// downstream ticketing bridge. The ticket id is generated locally and
// carried in the message so the bridge can correlate.
type KafkaTicketer struct {
	writer *kafka.Writer
	logger *zap.Logger
	topic  string
}

// NewKafkaTicketer creates a KafkaTicketer for the configured brokers/topic.
func NewKafkaTicketer(cfg config.KafkaTicketingConfig, logger *zap.Logger) (*KafkaTicketer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errors.New("kafka ticketing configuration incomplete: both brokers and topic are required")
	}

	w := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},

		// Writes are synchronous: a ticket only counts as created once the
		// leader acknowledged it.
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 50 * time.Millisecond,

		WriteTimeout: 5 * time.Second,
		ReadTimeout:  5 * time.Second,

		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Sugar().Warnf("kafka ticketing writer: "+msg, args...)
		}),
	}

	logger.Info("kafka ticketer created",
		zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))

	return &KafkaTicketer{
		writer: w,
		logger: logger,
		topic:  cfg.Topic,
	}, nil
}

// CreateIncident publishes one incident message and returns its ticket id.
func (t *KafkaTicketer) CreateIncident(ctx context.Context, inc *Incident) (string, error) {
	ticketID := uuid.NewString()

	msgBytes, err := json.Marshal(kafkaRecord{TicketID: ticketID, Incident: inc})
	if err != nil {
		return "", fmt.Errorf("failed to serialize incident: %w", err)
	}

	msg := kafka.Message{
		// Keyed by source event id so retried escalations land on the same
		// partition.
		Key:   []byte(inc.SourceEventID),
		Value: msgBytes,
	}
	if err := t.writer.WriteMessages(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to write incident to Kafka (topic: %s): %w", t.topic, err)
	}
	return ticketID, nil
}

// Close closes the writer, flushing any buffered messages.
func (t *KafkaTicketer) Close() error {
	t.logger.Info("closing kafka ticketer")
	return t.writer.Close()
}

var _ Ticketer = (*KafkaTicketer)(nil)
