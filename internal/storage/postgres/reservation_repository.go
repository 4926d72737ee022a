package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaancelik05/swimago-api-sub001/internal/domain"
)

const reservationColumns = `
id, code, venue_id, guest_id, start_time, end_time,
guest_count, adults, children, infants, selections,
unit_price, unit_count, total_price, discount, final_price, currency,
status, cancellation_reason,
created_at, confirmed_at, checked_in_at, cancelled_at, completed_at`

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ReservationRepository) FindOverlapping(ctx context.Context, venueID string, window domain.Window, excludeID string) ([]domain.Reservation, error) {
	const query = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE venue_id = $1
  AND status = ANY($2)
  AND start_time < $4 AND end_time > $3
  AND ($5::uuid IS NULL OR id <> $5::uuid)
ORDER BY start_time`

	statuses := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		statuses[i] = string(s)
	}
	var exclude *string
	if excludeID != "" {
		exclude = &excludeID
	}

	rows, err := r.query(ctx, query, venueID, statuses, window.Start, window.End, exclude)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("find overlapping: %w", err)
	}
	defer rows.Close()

	out, err := scanReservations(rows)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("find overlapping: %w", err)
	}
	return out, nil
}

func (r *ReservationRepository) Insert(ctx context.Context, res domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (
	id, code, venue_id, guest_id, start_time, end_time,
	guest_count, adults, children, infants, selections,
	unit_price, unit_count, total_price, discount, final_price, currency,
	status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	selections, err := json.Marshal(selectionsOrEmpty(res.Selections))
	if err != nil {
		return fmt.Errorf("marshal selections: %w", err)
	}

	_, err = r.exec(ctx, stmt,
		res.ID, res.Code, res.VenueID, res.GuestID, res.Window.Start, res.Window.End,
		res.GuestCount, res.Guests.Adults, res.Guests.Children, res.Guests.Infants, selections,
		res.UnitPrice, res.UnitCount, res.TotalPrice, res.Discount, res.FinalPrice, res.Currency,
		res.Status, res.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCodeConflict
		}
		if isExclusionViolation(err) {
			return domain.ErrOverlap
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) Get(ctx context.Context, id string) (domain.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate locks the reservation row so concurrent transitions
// serialize.
func (r *ReservationRepository) GetForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *ReservationRepository) GetByCode(ctx context.Context, code string) (domain.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE code = $1`
	res, err := scanReservation(r.queryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation by code: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) getOne(ctx context.Context, query, id string) (domain.Reservation, error) {
	res, err := scanReservation(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Reservation{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) ListByVenue(ctx context.Context, venueID string, activeOnly bool) ([]domain.Reservation, error) {
	const query = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE venue_id = $1
  AND (NOT $2 OR status = ANY($3))
ORDER BY start_time`

	statuses := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		statuses[i] = string(s)
	}

	rows, err := r.query(ctx, query, venueID, activeOnly, statuses)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	out, err := scanReservations(rows)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus, at time.Time, reason string) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	switch status {
	case domain.StatusConfirmed:
		tag, err = r.exec(ctx, `UPDATE reservations SET status = $2, confirmed_at = $3 WHERE id = $1`, id, status, at)
	case domain.StatusInProgress:
		tag, err = r.exec(ctx, `UPDATE reservations SET status = $2, checked_in_at = $3 WHERE id = $1`, id, status, at)
	case domain.StatusCancelled:
		tag, err = r.exec(ctx, `UPDATE reservations SET status = $2, cancelled_at = $3, cancellation_reason = NULLIF($4, '') WHERE id = $1`, id, status, at, reason)
	case domain.StatusCompleted:
		tag, err = r.exec(ctx, `UPDATE reservations SET status = $2, completed_at = $3 WHERE id = $1`, id, status, at)
	default:
		tag, err = r.exec(ctx, `UPDATE reservations SET status = $2 WHERE id = $1`, id, status)
	}
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// FindNoShowCandidates lists confirmed reservations whose window started at
// or before the cutoff, oldest first.
func (r *ReservationRepository) FindNoShowCandidates(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	const query = `
SELECT id FROM reservations
WHERE status = 'confirmed' AND start_time <= $1
ORDER BY start_time
LIMIT $2`

	rows, err := r.query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("find no-show candidates: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan no-show candidate: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func selectionsOrEmpty(s []domain.Selection) []domain.Selection {
	if s == nil {
		return []domain.Selection{}
	}
	return s
}

func scanReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var (
		res        domain.Reservation
		selections []byte
		reason     *string
	)
	err := row.Scan(
		&res.ID, &res.Code, &res.VenueID, &res.GuestID, &res.Window.Start, &res.Window.End,
		&res.GuestCount, &res.Guests.Adults, &res.Guests.Children, &res.Guests.Infants, &selections,
		&res.UnitPrice, &res.UnitCount, &res.TotalPrice, &res.Discount, &res.FinalPrice, &res.Currency,
		&res.Status, &reason,
		&res.CreatedAt, &res.ConfirmedAt, &res.CheckedInAt, &res.CancelledAt, &res.CompletedAt,
	)
	if err != nil {
		return domain.Reservation{}, err
	}
	if reason != nil {
		res.CancellationReason = *reason
	}
	if len(selections) > 0 {
		if err := json.Unmarshal(selections, &res.Selections); err != nil {
			return domain.Reservation{}, fmt.Errorf("unmarshal selections: %w", err)
		}
	}
	if len(res.Selections) == 0 {
		res.Selections = nil
	}
	return res, nil
}

func (r *ReservationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReservationRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
