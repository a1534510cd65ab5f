package config

import (
	"fmt"
)

// PipelineConfig defines configuration for the ingestion queue and batch scheduler
type PipelineConfig struct {
	QueueCapacity int    `yaml:"queue_capacity"` // Maximum number of buffered events
	BatchSize     int    `yaml:"batch_size"`     // Number of events per processing batch
	BatchTimeout  string `yaml:"batch_timeout"`  // Maximum wait time before a partial batch flushes
}

// SetDefaults sets reasonable default values for pipeline configuration
func (c *PipelineConfig) SetDefaults() {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 2048
		fmt.Printf("Warning: pipeline.queue_capacity not set or invalid, defaulting to %d\n", c.QueueCapacity)
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
		fmt.Printf("Warning: pipeline.batch_size not set or invalid, defaulting to %d\n", c.BatchSize)
	}
	if c.BatchTimeout == "" {
		c.BatchTimeout = "1s"
		fmt.Printf("Warning: pipeline.batch_timeout not set, defaulting to %s\n", c.BatchTimeout)
	}
}

// Validate validates the pipeline configuration
func (c *PipelineConfig) Validate() error {
	if c.BatchSize > c.QueueCapacity {
		return fmt.Errorf("pipeline batch_size (%d) cannot be greater than queue_capacity (%d)",
			c.BatchSize, c.QueueCapacity)
	}
	return nil
}

// StorageConfig defines configuration for the durable per-category log store
type StorageConfig struct {
	BaseDir       string `yaml:"base_dir"`       // Root directory for category logs
	FileExtension string `yaml:"file_extension"` // Extension of daily log files
}

// SetDefaults sets reasonable default values for storage configuration
func (c *StorageConfig) SetDefaults() {
	if c.BaseDir == "" {
		c.BaseDir = "./data/logs"
		fmt.Printf("Warning: storage.base_dir not set, defaulting to %s\n", c.BaseDir)
	}
	if c.FileExtension == "" {
		c.FileExtension = "jsonl"
	}
}

// KafkaTicketingConfig defines the Kafka bridge used as a ticketing backend
type KafkaTicketingConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// TicketingConfig defines configuration for incident escalation
type TicketingConfig struct {
	// Backend selects the ticketing implementation: "" (disabled), "mock",
	// "kafka" or "postgres".
	Backend     string               `yaml:"backend"`
	HourlyLimit int                  `yaml:"hourly_limit"` // Ceiling on tickets created per hour
	Timeout     string               `yaml:"timeout"`      // Per-call ticketing timeout
	Kafka       KafkaTicketingConfig `yaml:"kafka"`
	Database    DatabaseConfig       `yaml:"database"`
}

// Enabled reports whether a ticketing backend is configured.
func (c *TicketingConfig) Enabled() bool {
	return c.Backend != ""
}

// SetDefaults sets reasonable default values for ticketing configuration
func (c *TicketingConfig) SetDefaults() {
	if c.HourlyLimit <= 0 {
		c.HourlyLimit = 10
		if c.Enabled() {
			fmt.Printf("Warning: ticketing.hourly_limit not set or invalid, defaulting to %d\n", c.HourlyLimit)
		}
	}
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
	if c.Backend == "postgres" {
		c.Database.SetDefaults()
	}
}

// Validate validates the ticketing configuration
func (c *TicketingConfig) Validate() error {
	switch c.Backend {
	case "", "mock":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return fmt.Errorf("ticketing backend 'kafka' requires kafka.brokers and kafka.topic")
		}
	case "postgres":
		if err := c.Database.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown ticketing backend '%s'", c.Backend)
	}
	return nil
}

// KafkaConsumerConfig defines configuration for the Kafka ingestion source
type KafkaConsumerConfig struct {
	Brokers           []string `yaml:"brokers"`            // e.g., ["kafka1:9092", "kafka2:9092"]
	Topic             string   `yaml:"topic"`              // Topic to consume from
	GroupID           string   `yaml:"group_id"`           // Consumer group ID
	SessionTimeout    string   `yaml:"session_timeout"`    // Kafka session timeout
	HeartbeatInterval string   `yaml:"heartbeat_interval"` // Kafka heartbeat interval
	AutoOffsetReset   string   `yaml:"auto_offset_reset"`  // earliest/latest
}

// SetDefaults sets reasonable default values for Kafka consumer configuration
func (c *KafkaConsumerConfig) SetDefaults() {
	if c.SessionTimeout == "" {
		c.SessionTimeout = "30s"
		fmt.Printf("Warning: kafka_consumer.session_timeout not set, defaulting to %s\n", c.SessionTimeout)
	}
	if c.HeartbeatInterval == "" {
		c.HeartbeatInterval = "3s"
		fmt.Printf("Warning: kafka_consumer.heartbeat_interval not set, defaulting to %s\n", c.HeartbeatInterval)
	}
	if c.AutoOffsetReset == "" {
		c.AutoOffsetReset = "earliest"
		fmt.Printf("Warning: kafka_consumer.auto_offset_reset not set, defaulting to %s\n", c.AutoOffsetReset)
	}
}
