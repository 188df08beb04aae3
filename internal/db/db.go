package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(databaseURL string) *pgxpool.Pool {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		log.Fatalf("failed to parse db config: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	return pool
}

// EnsureSchema creates the providers table if it does not exist yet.
// The ETL runs it before loading and the API runs it on boot, mirroring
// the create-on-startup behaviour the service has always had.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS providers (
			id UUID PRIMARY KEY,
			provider_id TEXT NOT NULL,
			provider_name TEXT NOT NULL,
			provider_city TEXT NOT NULL,
			provider_state TEXT NOT NULL,
			provider_zip_code TEXT NOT NULL,
			ms_drg_definition INTEGER NOT NULL,
			total_discharges INTEGER NOT NULL,
			average_covered_charges DOUBLE PRECISION NOT NULL,
			average_total_payments DOUBLE PRECISION NOT NULL,
			average_medicare_payments DOUBLE PRECISION NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			star_rating INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_providers_provider_id ON providers (provider_id);
		CREATE INDEX IF NOT EXISTS idx_providers_drg ON providers (ms_drg_definition);
	`)
	return err
}
