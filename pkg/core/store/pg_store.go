package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"capital_metrics/pkg/models"
)

// PGStore persists records in Postgres, one row per ticker with the
// flat record as JSONB alongside the key fields used for lookups.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps an existing connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS financial_metrics (
			ticker       TEXT PRIMARY KEY,
			id           TEXT NOT NULL,
			computed_at  TIMESTAMPTZ NOT NULL,
			ttl_days     INT NOT NULL,
			data         JSONB NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure financial_metrics schema: %w", err)
	}
	return nil
}

// Load fetches the ticker's record from the data column.
func (s *PGStore) Load(ctx context.Context, ticker string) (*models.Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM financial_metrics WHERE ticker = $1`,
		tickerKey(ticker),
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cached metrics for %s: %w", ticker, err)
	}
	var rec models.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode cached metrics for %s: %w", ticker, err)
	}
	return &rec, nil
}

// Save upserts the record, overwriting the prior row for the ticker.
func (s *PGStore) Save(ctx context.Context, rec *models.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode metrics for %s: %w", rec.Ticker, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO financial_metrics (ticker, id, computed_at, ttl_days, data)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker)
		DO UPDATE SET
			id = EXCLUDED.id,
			computed_at = EXCLUDED.computed_at,
			ttl_days = EXCLUDED.ttl_days,
			data = EXCLUDED.data,
			updated_at = NOW()
	`, tickerKey(rec.Ticker), rec.ID, rec.ComputedAt, rec.TTLDays, data)
	if err != nil {
		return fmt.Errorf("save metrics for %s: %w", rec.Ticker, err)
	}
	return nil
}
