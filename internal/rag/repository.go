package rag

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	ListProviders(ctx context.Context, drg *int) ([]Provider, error)
	InsertProvider(ctx context.Context, p *Provider) (uuid.UUID, error)
	DeleteAllProviders(ctx context.Context) (int64, error)
	CountProviders(ctx context.Context) (int64, error)
}

type PgRepository struct {
	db *pgxpool.Pool
}

func NewPgRepository(db *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: db}
}

const providerColumns = `
	id, provider_id, provider_name, provider_city, provider_state,
	provider_zip_code, ms_drg_definition, total_discharges,
	average_covered_charges, average_total_payments, average_medicare_payments,
	latitude, longitude, star_rating
`

// ListProviders returns the corpus snapshot for one request, optionally
// filtered by DRG code, sorted by average total payments ascending so that
// downstream ordering is deterministic.
func (r *PgRepository) ListProviders(ctx context.Context, drg *int) ([]Provider, error) {
	query := `
		SELECT ` + providerColumns + `
		FROM providers
		ORDER BY average_total_payments ASC, provider_id ASC
	`
	args := []any{}
	if drg != nil {
		query = `
			SELECT ` + providerColumns + `
			FROM providers
			WHERE ms_drg_definition = $1
			ORDER BY average_total_payments ASC, provider_id ASC
		`
		args = append(args, *drg)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []Provider
	for rows.Next() {
		var p Provider
		if err := rows.Scan(
			&p.ID,
			&p.ProviderID,
			&p.ProviderName,
			&p.ProviderCity,
			&p.ProviderState,
			&p.ProviderZipCode,
			&p.MSDRGDefinition,
			&p.TotalDischarges,
			&p.AverageCoveredCharges,
			&p.AverageTotalPayments,
			&p.AverageMedicarePayments,
			&p.Latitude,
			&p.Longitude,
			&p.StarRating,
		); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	return providers, rows.Err()
}

func (r *PgRepository) InsertProvider(ctx context.Context, p *Provider) (uuid.UUID, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO providers (`+providerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		id,
		p.ProviderID,
		p.ProviderName,
		p.ProviderCity,
		p.ProviderState,
		p.ProviderZipCode,
		p.MSDRGDefinition,
		p.TotalDischarges,
		p.AverageCoveredCharges,
		p.AverageTotalPayments,
		p.AverageMedicarePayments,
		p.Latitude,
		p.Longitude,
		p.StarRating,
	)
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *PgRepository) DeleteAllProviders(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM providers`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) CountProviders(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM providers`).Scan(&n)
	return n, err
}

var _ Repository = (*PgRepository)(nil)
