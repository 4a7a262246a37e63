package repository

import (
	"context"
	"time"

	"rentloop/internal/domain/reservation"
	"rentloop/internal/infra"
	"rentloop/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

// CreateIfAvailable inserts the reservation only when no active reservation
// for the same object overlaps its period. The availability check and the
// insert are one statement, so two concurrent creates cannot both pass the
// check: the loser sees zero rows and gets a conflict.
func (r *ReservationRepository) CreateIfAvailable(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	const q = `
		INSERT INTO reservations (
			id, object_id, renter_id, owner_id, start_date, end_date,
			total_price, payment_ref, status, created_at, updated_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now()
		WHERE NOT EXISTS (
			SELECT 1 FROM reservations
			WHERE object_id = $2
			  AND status IN ('confirmed', 'ongoing')
			  AND start_date < $6
			  AND $5 < end_date
		)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, q,
		res.ID(), res.ObjectID(), res.RenterID(), res.OwnerID(),
		res.Period().Start(), res.Period().End(),
		res.TotalPrice(), res.PaymentRef(), res.Status().String(),
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, infra.NewRepoErr("object already booked for this period", infra.KindConflict)
		}
		if isForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("referenced object or user does not exist", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}

	return id, nil
}

// noActiveOverlapGuard keeps a reservation from entering the active set
// while another active reservation holds an overlapping period on the
// same object. Overlapping requests may all sit in pending, so the
// create-time check alone cannot protect the confirm step.
const noActiveOverlapGuard = `
	NOT EXISTS (
		SELECT 1 FROM reservations o
		WHERE o.object_id = reservations.object_id
		  AND o.id <> reservations.id
		  AND o.status IN ('confirmed', 'ongoing')
		  AND o.start_date < reservations.end_date
		  AND reservations.start_date < o.end_date
	)`

// UpdateStatusIf applies a transition as a compare-and-swap on the status
// column. The step into confirmed additionally requires the period to be
// free of other active reservations. Zero rows means the reservation
// moved under us, is gone, or lost the period; the caller decides which,
// having read a snapshot in the same transaction.
func (r *ReservationRepository) UpdateStatusIf(ctx context.Context, tx db.DBTX, id uuid.UUID, from, to reservation.Status) (bool, error) {
	q := `
		UPDATE reservations
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`
	if to == reservation.StatusConfirmed {
		q += ` AND ` + noActiveOverlapGuard
	}

	tag, err := tx.Exec(ctx, q, id, from.String(), to.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update reservation status", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ConfirmWithPayment is the payment-driven entry to confirmed; the
// pending-only guard makes it mutually exclusive with owner acceptance,
// and the overlap guard mirrors the owner-acceptance path.
func (r *ReservationRepository) ConfirmWithPayment(ctx context.Context, tx db.DBTX, id uuid.UUID, paymentRef string) (bool, error) {
	q := `
		UPDATE reservations
		SET status = 'confirmed', payment_ref = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending' AND ` + noActiveOverlapGuard

	tag, err := tx.Exec(ctx, q, id, paymentRef)
	if err != nil {
		return false, infra.WrapRepoErr("failed to confirm reservation payment", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Transitioned identifies a reservation the reconciler advanced, with the
// object whose status may now need recomputation.
type Transitioned struct {
	ReservationID uuid.UUID
	ObjectID      uuid.UUID
}

// StartDue promotes confirmed reservations whose start date has arrived.
// The status predicate makes the statement idempotent and safe against
// concurrent transitions: rows already moved by another path are skipped.
func (r *ReservationRepository) StartDue(ctx context.Context, tx db.DBTX, today time.Time) ([]Transitioned, error) {
	const q = `
		UPDATE reservations
		SET status = 'ongoing', updated_at = now()
		WHERE status = 'confirmed' AND start_date <= $1
		RETURNING id, object_id`

	return r.collectTransitioned(ctx, tx, q, today, "failed to start due reservations")
}

// CompleteExpired promotes ongoing reservations strictly past their end date.
func (r *ReservationRepository) CompleteExpired(ctx context.Context, tx db.DBTX, today time.Time) ([]Transitioned, error) {
	const q = `
		UPDATE reservations
		SET status = 'completed', updated_at = now()
		WHERE status = 'ongoing' AND end_date < $1
		RETURNING id, object_id`

	return r.collectTransitioned(ctx, tx, q, today, "failed to complete expired reservations")
}

func (r *ReservationRepository) collectTransitioned(ctx context.Context, tx db.DBTX, q string, today time.Time, errMsg string) ([]Transitioned, error) {
	rows, err := tx.Query(ctx, q, today)
	if err != nil {
		return nil, infra.WrapRepoErr(errMsg, err)
	}
	defer rows.Close()

	var out []Transitioned
	for rows.Next() {
		var t Transitioned
		if err := rows.Scan(&t.ReservationID, &t.ObjectID); err != nil {
			return nil, infra.WrapRepoErr(errMsg, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(errMsg, err)
	}

	return out, nil
}

// ActiveCount feeds the object status policy: the number of confirmed or
// ongoing reservations referencing the object.
func (r *ReservationRepository) ActiveCount(ctx context.Context, tx db.DBTX, objectID uuid.UUID) (int, error) {
	const q = `
		SELECT COUNT(*) FROM reservations
		WHERE object_id = $1 AND status IN ('confirmed', 'ongoing')`

	var count int
	if err := tx.QueryRow(ctx, q, objectID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count active reservations", err)
	}
	return count, nil
}

// HasActiveOverlap answers the availability query against active
// reservations, using the same half-open predicate as CreateIfAvailable.
func (r *ReservationRepository) HasActiveOverlap(ctx context.Context, tx db.DBTX, objectID uuid.UUID, start, end time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE object_id = $1
			  AND status IN ('confirmed', 'ongoing')
			  AND start_date < $3
			  AND $2 < end_date
		)`

	var exists bool
	if err := tx.QueryRow(ctx, q, objectID, start, end).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check availability", err)
	}
	return exists, nil
}
