package incident

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"logsift/config"
)

const incidentsSchema = `
CREATE TABLE IF NOT EXISTS incidents (
	id              UUID PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL,
	severity        TEXT NOT NULL,
	source_event_id TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresTicketer records incidents as rows in a Postgres ledger table.
// The row id doubles as the ticket id.
type PostgresTicketer struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresTicketer connects to Postgres and ensures the incidents table
// exists.
func NewPostgresTicketer(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*PostgresTicketer, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConnections)
	poolCfg.MinConns = int32(cfg.MinConnections)

	pool, err := pgxpool.ConnectConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := pool.Exec(ctx, incidentsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure incidents table: %w", err)
	}

	logger.Info("postgres ticketer created",
		zap.Int("max_connections", cfg.MaxConnections),
		zap.Int("min_connections", cfg.MinConnections))

	return &PostgresTicketer{pool: pool, logger: logger}, nil
}

// CreateIncident inserts one incident row and returns its id.
func (t *PostgresTicketer) CreateIncident(ctx context.Context, inc *Incident) (string, error) {
	ticketID := uuid.NewString()
	_, err := t.pool.Exec(ctx,
		`INSERT INTO incidents (id, title, description, severity, source_event_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		ticketID, inc.Title, inc.Description, inc.Severity, inc.SourceEventID)
	if err != nil {
		return "", fmt.Errorf("failed to insert incident: %w", err)
	}
	return ticketID, nil
}

// Close releases the connection pool.
func (t *PostgresTicketer) Close() error {
	t.logger.Info("closing postgres ticketer")
	t.pool.Close()
	return nil
}

var _ Ticketer = (*PostgresTicketer)(nil)
