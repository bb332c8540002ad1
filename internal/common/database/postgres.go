// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"venue-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pooled lib/pq connection. It does not dial; call Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// schema is applied statement by statement; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS revenue_bands (
		venue_id               TEXT             NOT NULL,
		position               INTEGER          NOT NULL,
		name                   TEXT             NOT NULL,
		revenue_min            DOUBLE PRECISION NOT NULL,
		revenue_max            DOUBLE PRECISION NOT NULL,
		foh_min_staff          INTEGER          NOT NULL,
		foh_max_staff          INTEGER          NOT NULL,
		kitchen_min_staff      INTEGER          NOT NULL,
		kitchen_max_staff      INTEGER          NOT NULL,
		kp_min_staff           INTEGER          NOT NULL,
		kp_max_staff           INTEGER          NOT NULL,
		target_cost_percentage DOUBLE PRECISION NOT NULL,
		updated_at             TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
		PRIMARY KEY (venue_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS performance_reviews (
		id             UUID             PRIMARY KEY,
		venue_id       TEXT             NOT NULL,
		staff_id       TEXT             NOT NULL,
		role           TEXT             NOT NULL CHECK (role IN ('foh', 'kitchen')),
		scores         JSONB            NOT NULL,
		weighted_score DOUBLE PRECISION NOT NULL,
		reviewer_id    TEXT,
		notes          TEXT,
		created_at     TIMESTAMPTZ      NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_performance_reviews_staff
		ON performance_reviews (venue_id, staff_id, created_at DESC)`,
}

// EnsureSchema creates the tables the workers read and write.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
