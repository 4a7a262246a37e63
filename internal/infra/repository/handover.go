package repository

import (
	"context"
	"time"

	"rentloop/internal/domain/handover"
	"rentloop/internal/infra"
	"rentloop/internal/infra/db"

	"github.com/google/uuid"
)

type HandoverRepository struct{}

func NewHandoverRepository() *HandoverRepository {
	return &HandoverRepository{}
}

func (r *HandoverRepository) Create(ctx context.Context, tx db.DBTX, h *handover.Handover) (uuid.UUID, error) {
	const q = `
		INSERT INTO handovers (
			id, reservation_id, type, token, scheduled_date, actual_date,
			address, notes, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, q,
		h.ID(), h.ReservationID(), h.Type().String(), h.Token(),
		h.ScheduledDate(), h.ActualDate(), h.Address(), h.Notes(),
		h.Status().String(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("handover token collision", err, infra.KindDuplicateKey)
		}
		if isForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("reservation does not exist", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create handover", err)
	}

	return id, nil
}

// RedeemIfPending consumes a token: the pending-only predicate enforces
// at-most-once redemption at the storage layer, so two concurrent redeem
// calls cannot both succeed. Zero rows means the token was already spent
// (or cancelled); the caller disambiguates against a snapshot read in the
// same transaction.
func (r *HandoverRepository) RedeemIfPending(ctx context.Context, tx db.DBTX, token string, outcome handover.Status, actualDate time.Time) (bool, error) {
	const q = `
		UPDATE handovers
		SET status = $2, actual_date = $3, updated_at = now()
		WHERE token = $1 AND status = 'pending'`

	tag, err := tx.Exec(ctx, q, token, outcome.String(), actualDate)
	if err != nil {
		return false, infra.WrapRepoErr("failed to redeem handover token", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *HandoverRepository) CancelIfPending(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error) {
	const q = `
		UPDATE handovers
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status = 'pending'`

	tag, err := tx.Exec(ctx, q, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to cancel handover", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CancelPendingByReservation voids every unredeemed handover of a
// reservation. Used when the reservation itself is cancelled so no
// orphaned pending tokens stay redeemable.
func (r *HandoverRepository) CancelPendingByReservation(ctx context.Context, tx db.DBTX, reservationID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		UPDATE handovers
		SET status = 'cancelled', updated_at = now()
		WHERE reservation_id = $1 AND status = 'pending'
		RETURNING id`

	rows, err := tx.Query(ctx, q, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to cancel pending handovers", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cancelled handover", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate cancelled handovers", err)
	}

	return ids, nil
}

// HasRedeemedPickup reports whether the reservation's pickup handover has
// been redeemed, which gates return redemption.
func (r *HandoverRepository) HasRedeemedPickup(ctx context.Context, tx db.DBTX, reservationID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM handovers
			WHERE reservation_id = $1 AND type = 'pickup' AND status = 'picked_up'
		)`

	var exists bool
	if err := tx.QueryRow(ctx, q, reservationID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check pickup redemption", err)
	}
	return exists, nil
}
