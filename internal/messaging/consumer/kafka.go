package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"logsift/config"
	"logsift/internal/models"
)

// KafkaConsumer implements the Consumer interface by consuming structured
// log events from a Kafka topic.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *zap.Logger
}

// NewKafkaConsumer creates a new KafkaConsumer instance.
func NewKafkaConsumer(cfg config.KafkaConsumerConfig, logger *zap.Logger) (*KafkaConsumer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.GroupID == "" {
		return nil, errors.New("incomplete kafka configuration: brokers, topic, group_id are all required")
	}

	sessionTimeout, err := time.ParseDuration(cfg.SessionTimeout)
	if err != nil {
		logger.Warn("invalid session_timeout, using default 30s", zap.String("value", cfg.SessionTimeout))
		sessionTimeout = 30 * time.Second
	}

	heartbeatInterval, err := time.ParseDuration(cfg.HeartbeatInterval)
	if err != nil {
		logger.Warn("invalid heartbeat_interval, using default 3s", zap.String("value", cfg.HeartbeatInterval))
		heartbeatInterval = 3 * time.Second
	}

	readerConfig := kafka.ReaderConfig{
		Brokers:           cfg.Brokers,
		GroupID:           cfg.GroupID,
		Topic:             cfg.Topic,
		MinBytes:          10e3, // 10KB
		MaxBytes:          10e6, // 10MB
		MaxWait:           1 * time.Second,
		CommitInterval:    time.Second,
		SessionTimeout:    sessionTimeout,
		HeartbeatInterval: heartbeatInterval,
		StartOffset:       kafka.FirstOffset,
	}

	switch cfg.AutoOffsetReset {
	case "latest":
		readerConfig.StartOffset = kafka.LastOffset
	case "", "earliest":
		readerConfig.StartOffset = kafka.FirstOffset
	default:
		logger.Warn("unknown auto_offset_reset, using earliest", zap.String("value", cfg.AutoOffsetReset))
		readerConfig.StartOffset = kafka.FirstOffset
	}

	r := kafka.NewReader(readerConfig)

	logger.Info("kafka consumer created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID))

	return &KafkaConsumer{
		reader: r,
		logger: logger,
	}, nil
}

// Consume implements the Consumer interface by reading one message from
// Kafka and decoding it into a LogEvent with submission defaults applied.
func (k *KafkaConsumer) Consume(ctx context.Context) (ev *models.LogEvent, ack func(success bool), err error) {
	kafkaMsg, err := k.reader.FetchMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			k.logger.Info("kafka consumer: context cancelled, stopping consumption")
			return nil, nil, ctx.Err()
		}
		return nil, nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(kafkaMsg.Value, &fields); err != nil {
		k.logger.Warn("kafka consumer: discarding undecodable message",
			zap.Int64("offset", kafkaMsg.Offset), zap.Error(err))
		_ = k.reader.CommitMessages(ctx, kafkaMsg) // Commit offset to avoid blocking
		return nil, nil, fmt.Errorf("%w: %v", ErrMessageDiscarded, err)
	}
	event := models.NewLogEvent(fields)

	ackCallback := func(success bool) {
		commitCtx := context.Background()
		if success {
			if err := k.reader.CommitMessages(commitCtx, kafkaMsg); err != nil {
				k.logger.Warn("kafka consumer: failed to commit offset",
					zap.Int64("offset", kafkaMsg.Offset), zap.Error(err))
			}
		} else {
			k.logger.Warn("kafka consumer: nack received, offset will not be committed",
				zap.Int64("offset", kafkaMsg.Offset), zap.String("event_id", event.ID))
		}
	}

	return event, ackCallback, nil
}

// Close implements the Consumer interface by closing the Kafka reader.
func (k *KafkaConsumer) Close() error {
	k.logger.Info("closing kafka consumer")
	return k.reader.Close()
}

// Ensure KafkaConsumer implements the Consumer interface
var _ Consumer = (*KafkaConsumer)(nil)
