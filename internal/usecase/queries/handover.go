package queries

import (
	"context"

	"rentloop/internal/infra"
	"rentloop/internal/pkg/errs"

	"github.com/google/uuid"
)

type HandoverReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*HandoverView, error)
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*HandoverView, error)
}

type HandoverQueries struct {
	handovers    HandoverReader
	reservations ReservationReader
}

func NewHandoverQueries(handovers HandoverReader, reservations ReservationReader) *HandoverQueries {
	return &HandoverQueries{handovers: handovers, reservations: reservations}
}

// GetByID returns the handover, token included, to the reservation's
// participants only. The token is the redemption credential.
func (q *HandoverQueries) GetByID(ctx context.Context, id, actorID uuid.UUID) (*HandoverView, error) {
	view, err := q.handovers.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrHandoverNotFound)
		}
		return nil, err
	}
	if err := q.checkParticipant(ctx, view.ReservationID, actorID); err != nil {
		return nil, err
	}
	return view, nil
}

func (q *HandoverQueries) ListForReservation(ctx context.Context, reservationID, actorID uuid.UUID) ([]*HandoverView, error) {
	if err := q.checkParticipant(ctx, reservationID, actorID); err != nil {
		return nil, err
	}
	return q.handovers.FindByReservationID(ctx, reservationID)
}

func (q *HandoverQueries) checkParticipant(ctx context.Context, reservationID, actorID uuid.UUID) error {
	res, err := q.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrReservationNotFound)
		}
		return err
	}
	if res.RenterID != actorID && res.OwnerID != actorID {
		return errs.ErrNotParticipant
	}
	return nil
}
