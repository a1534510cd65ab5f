package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"logsift/classify"
	"logsift/config"
	"logsift/incident"
	"logsift/internal/messaging/consumer"
	"logsift/pipeline"
	"logsift/storage/store"
)

const defaultConfigPath = "./config/logsift.yml"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting logsift pipeline service")

	configPath := defaultConfigPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// 1. Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize dependencies
	classifier := classify.New(classify.Compile(cfg.Rules))

	fileStore := store.NewFileStore(cfg.Storage.BaseDir, cfg.Storage.FileExtension, logger)
	defer fileStore.Close()

	ticketer, err := newTicketer(ctx, cfg.Ticketing, logger)
	if err != nil {
		logger.Fatal("failed to initialize ticketing backend", zap.Error(err))
	}
	if ticketer != nil {
		defer ticketer.Close()
	}

	ticketingTimeout, err := time.ParseDuration(cfg.Ticketing.Timeout)
	if err != nil {
		ticketingTimeout = 5 * time.Second
	}
	escalator := incident.NewEscalator(ticketer, cfg.Ticketing.HourlyLimit, ticketingTimeout, logger)

	// 3. Create and start the pipeline
	p := pipeline.New(cfg.Pipeline, classifier, fileStore, escalator, logger)
	p.Start()

	// 4. Attach the ingestion source
	var src consumer.Consumer
	if len(cfg.KafkaConsumer.Brokers) > 0 && cfg.KafkaConsumer.Brokers[0] != "mock://local" {
		cfg.KafkaConsumer.SetDefaults()
		src, err = consumer.NewKafkaConsumer(cfg.KafkaConsumer, logger)
		if err != nil {
			logger.Fatal("failed to initialize kafka consumer", zap.Error(err))
		}
	} else {
		logger.Info("no kafka brokers configured, using mock consumer")
		src = consumer.NewMockConsumer(nil, logger)
	}
	defer src.Close()

	sourceDone := make(chan struct{})
	go func() {
		defer close(sourceDone)
		pipeline.RunSource(ctx, src, p, logger)
	}()

	logger.Info("logsift pipeline service started")

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("received shutdown signal, initiating graceful shutdown")

	cancel()
	<-sourceDone
	p.Stop()

	snap := p.Stats()
	logger.Info("logsift pipeline service shut down",
		zap.Int64("logs_processed", snap.LogsProcessed),
		zap.Int64("incidents_created", snap.IncidentsCreated),
		zap.Int64("incidents_suppressed", snap.IncidentsSuppressed),
		zap.Int64("errors", snap.Errors))
}

// newTicketer builds the configured ticketing backend. An empty backend
// disables escalation (nil ticketer).
func newTicketer(ctx context.Context, cfg config.TicketingConfig, logger *zap.Logger) (incident.Ticketer, error) {
	switch cfg.Backend {
	case "":
		logger.Info("ticketing disabled")
		return nil, nil
	case "mock":
		return incident.NewMockTicketer(), nil
	case "kafka":
		return incident.NewKafkaTicketer(cfg.Kafka, logger)
	case "postgres":
		return incident.NewPostgresTicketer(ctx, cfg.Database, logger)
	default:
		return nil, fmt.Errorf("unknown ticketing backend '%s'", cfg.Backend)
	}
}
