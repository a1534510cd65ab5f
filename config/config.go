package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline service configuration.
type Config struct {
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Rules         RulesConfig         `yaml:"rules"`
	Storage       StorageConfig       `yaml:"storage"`
	Ticketing     TicketingConfig     `yaml:"ticketing"`
	KafkaConsumer KafkaConsumerConfig `yaml:"kafka_consumer"`
}

// LoadConfig loads the service configuration from the specified YAML file path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	// Set default values for all sections
	cfg.Pipeline.SetDefaults()
	cfg.Rules.SetDefaults()
	cfg.Storage.SetDefaults()
	cfg.Ticketing.SetDefaults()

	if err := cfg.Pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline configuration error: %w", err)
	}
	if err := cfg.Ticketing.Validate(); err != nil {
		return nil, fmt.Errorf("ticketing configuration error: %w", err)
	}

	return &cfg, nil
}
