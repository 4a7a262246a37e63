package readstore

import (
	"context"
	"time"

	"rentloop/internal/domain/reservation"
	"rentloop/internal/infra"
	"rentloop/internal/infra/db"
	"rentloop/internal/usecase/queries"
	"rentloop/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

const reservationSelect = `
	SELECT r.id, r.object_id, o.title, r.renter_id, r.owner_id,
	       r.start_date, r.end_date, r.total_price, r.payment_ref, r.status,
	       r.created_at, r.updated_at
	FROM reservations r
	JOIN objects o ON o.id = r.object_id`

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	q := reservationSelect + ` WHERE r.id = $1`

	v, err := scanReservation(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return v, nil
}

// FindByUserID returns reservations where the user is either side of the
// rental, newest first.
func (r *ReservationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.ReservationView, error) {
	q := reservationSelect + ` WHERE r.renter_id = $1 OR r.owner_id = $1 ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list user reservations", err)
	}
	defer rows.Close()

	var views []*queries.ReservationView
	for rows.Next() {
		v, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}

	return views, nil
}

func (r *ReservationReadStore) FindByObjectID(ctx context.Context, objectID uuid.UUID) ([]*queries.ReservationView, error) {
	q := reservationSelect + ` WHERE r.object_id = $1 ORDER BY r.start_date`

	rows, err := r.db.Query(ctx, q, objectID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list object reservations", err)
	}
	defer rows.Close()

	var views []*queries.ReservationView
	for rows.Next() {
		v, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}

	return views, nil
}

// HasActiveOverlap reports whether any confirmed or ongoing reservation
// intersects [start, end). Periods are half-open, so back-to-back rentals
// sharing a boundary date do not collide.
func (r *ReservationReadStore) HasActiveOverlap(ctx context.Context, objectID uuid.UUID, start, end time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE object_id = $1
			  AND status IN ('confirmed', 'ongoing')
			  AND start_date < $3 AND $2 < end_date
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, objectID, start, end).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check period overlap", err)
	}
	return exists, nil
}

func (r *ReservationReadStore) SnapshotByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	const q = `
		SELECT id, object_id, renter_id, owner_id, start_date, end_date, status
		FROM reservations WHERE id = $1`

	var s shared.ReservationSnapshot
	var status string
	err := dbtx.QueryRow(ctx, q, id).Scan(
		&s.ID, &s.ObjectID, &s.RenterID, &s.OwnerID, &s.Start, &s.End, &status,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read reservation snapshot", err)
	}
	s.Status = reservation.Status(status)

	return &s, nil
}

func scanReservation(row pgx.Row) (*queries.ReservationView, error) {
	var v queries.ReservationView
	err := row.Scan(
		&v.ID, &v.ObjectID, &v.ObjectTitle, &v.RenterID, &v.OwnerID,
		&v.StartDate, &v.EndDate, &v.TotalPrice, &v.PaymentRef, &v.Status,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
