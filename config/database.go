package config

import "fmt"

// DatabaseConfig defines the connection settings for the Postgres-backed
// incident ledger used by the "postgres" ticketing backend.
type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`             // PostgreSQL connection string
	MaxConnections int    `yaml:"max_connections"` // Maximum number of pooled connections
	MinConnections int    `yaml:"min_connections"` // Minimum number of pooled connections
}

// SetDefaults sets sensible default values for the database configuration
func (c *DatabaseConfig) SetDefaults() {
	if c.MaxConnections <= 0 {
		c.MaxConnections = 10
		fmt.Printf("Warning: ticketing.database.max_connections not set or invalid, defaulting to %d\n", c.MaxConnections)
	}
	if c.MinConnections <= 0 {
		c.MinConnections = 2
		fmt.Printf("Warning: ticketing.database.min_connections not set or invalid, defaulting to %d\n", c.MinConnections)
	}
}

// Validate validates the database configuration
func (c *DatabaseConfig) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min_connections (%d) cannot be greater than max_connections (%d)",
			c.MinConnections, c.MaxConnections)
	}
	return nil
}
