package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/backoffice/internal/core"
)

// RateRepository is the durable exchange-rate history. It implements
// core.RateHistory.
type RateRepository struct {
	pool *pgxpool.Pool
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

// LatestRate returns the most recent rate recorded on or before the KST day
// containing onOrBefore.
func (r *RateRepository) LatestRate(ctx context.Context, onOrBefore time.Time) (core.ExchangeRate, bool, error) {
	const query = `
SELECT as_of, rate, source
FROM exchange_rates
WHERE as_of <= $1
ORDER BY as_of DESC
LIMIT 1`

	rate, err := scanRate(conn(ctx, r.pool).QueryRow(ctx, query, toPgDate(onOrBefore)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ExchangeRate{}, false, nil
		}
		return core.ExchangeRate{}, false, fmt.Errorf("latest rate: %w", err)
	}
	return rate, true, nil
}

// SaveRate stores the rate for its day, replacing any earlier value.
func (r *RateRepository) SaveRate(ctx context.Context, rate core.ExchangeRate) error {
	const stmt = `
INSERT INTO exchange_rates (as_of, rate, source, recorded_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (as_of) DO UPDATE
SET rate = EXCLUDED.rate, source = EXCLUDED.source, recorded_at = EXCLUDED.recorded_at`

	if _, err := conn(ctx, r.pool).Exec(ctx, stmt, toPgDate(rate.AsOf), rate.Rate, string(rate.Source)); err != nil {
		return fmt.Errorf("save rate: %w", err)
	}
	return nil
}

// Recent returns up to limit rates, newest first.
func (r *RateRepository) Recent(ctx context.Context, limit int) ([]core.ExchangeRate, error) {
	if limit <= 0 || limit > 366 {
		limit = 30
	}
	const query = `SELECT as_of, rate, source FROM exchange_rates ORDER BY as_of DESC LIMIT $1`

	rows, err := conn(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent rates: %w", err)
	}
	defer rows.Close()

	out := make([]core.ExchangeRate, 0)
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		out = append(out, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent rates: %w", err)
	}
	return out, nil
}

func scanRate(row pgx.Row) (core.ExchangeRate, error) {
	var (
		asOf   pgtype.Date
		rate   float64
		source string
	)
	if err := row.Scan(&asOf, &rate, &source); err != nil {
		return core.ExchangeRate{}, err
	}
	return core.ExchangeRate{Rate: rate, AsOf: fromPgDate(asOf), Source: core.RateSource(source)}, nil
}
