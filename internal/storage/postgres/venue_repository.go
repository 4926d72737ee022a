package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

const venueColumns = `id, host_id, name, capacity, rate_unit, base_rate, currency, created_at`

type VenueRepository struct {
	pool *pgxpool.Pool
}

func NewVenueRepository(pool *pgxpool.Pool) *VenueRepository {
	return &VenueRepository{pool: pool}
}

func (r *VenueRepository) CreateVenue(ctx context.Context, venue domain.Venue) error {
	const stmt = `
INSERT INTO venues (id, host_id, name, capacity, rate_unit, base_rate, currency, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		venue.ID, venue.HostID, venue.Name, venue.Capacity,
		venue.RateUnit, venue.BaseRate, venue.Currency, venue.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create venue: %w", err)
	}
	return nil
}

func (r *VenueRepository) GetVenue(ctx context.Context, id string) (domain.Venue, error) {
	const query = `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetVenueForUpdate locks the venue row for the rest of the transaction,
// serializing all writers on this venue. Writers on other venues are not
// blocked.
func (r *VenueRepository) GetVenueForUpdate(ctx context.Context, id string) (domain.Venue, error) {
	const query = `SELECT ` + venueColumns + ` FROM venues WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *VenueRepository) getOne(ctx context.Context, query, id string) (domain.Venue, error) {
	var v domain.Venue
	err := r.queryRow(ctx, query, id).Scan(
		&v.ID, &v.HostID, &v.Name, &v.Capacity, &v.RateUnit, &v.BaseRate, &v.Currency, &v.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Venue{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Venue{}, domain.ErrVenueNotFound
		}
		return domain.Venue{}, fmt.Errorf("get venue: %w", err)
	}
	return v, nil
}

func (r *VenueRepository) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	const query = `SELECT ` + venueColumns + ` FROM venues ORDER BY created_at, name`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var out []domain.Venue
	for rows.Next() {
		var v domain.Venue
		if err := rows.Scan(&v.ID, &v.HostID, &v.Name, &v.Capacity, &v.RateUnit, &v.BaseRate, &v.Currency, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VenueRepository) UpsertRateOverride(ctx context.Context, override domain.RateOverride) error {
	const stmt = `
INSERT INTO venue_rate_overrides (venue_id, date, rate, closed)
VALUES ($1, $2, $3, $4)
ON CONFLICT (venue_id, date) DO UPDATE SET rate = EXCLUDED.rate, closed = EXCLUDED.closed`

	_, err := r.exec(ctx, stmt, override.VenueID, override.Date, override.Rate, override.Closed)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("upsert rate override: %w", err)
	}
	return nil
}

// GetRate resolves the rate for a venue on a date: the base rate, replaced
// by a date override when one exists. A closed date prices nothing.
func (r *VenueRepository) GetRate(ctx context.Context, venueID string, date time.Time) (domain.Rate, error) {
	const query = `
SELECT v.rate_unit, COALESCE(o.rate, v.base_rate), v.currency, COALESCE(o.closed, FALSE)
FROM venues v
LEFT JOIN venue_rate_overrides o ON o.venue_id = v.id AND o.date = $2::date
WHERE v.id = $1`

	var (
		rate   domain.Rate
		closed bool
	)
	err := r.queryRow(ctx, query, venueID, date.UTC()).Scan(&rate.Unit, &rate.Price, &rate.Currency, &closed)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Rate{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Rate{}, domain.ErrVenueNotFound
		}
		return domain.Rate{}, fmt.Errorf("get rate: %w", err)
	}
	if closed {
		return domain.Rate{}, domain.ErrPricingUnavailable
	}
	return rate, nil
}

func (r *VenueRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *VenueRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *VenueRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
