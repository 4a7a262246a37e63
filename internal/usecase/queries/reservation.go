package queries

import (
	"context"

	"rentloop/internal/infra"
	"rentloop/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReservationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error)
	FindByObjectID(ctx context.Context, objectID uuid.UUID) ([]*ReservationView, error)
}

type ReservationQueries struct {
	reservations ReservationReader
	objects      ObjectReader
}

func NewReservationQueries(reservations ReservationReader, objects ObjectReader) *ReservationQueries {
	return &ReservationQueries{reservations: reservations, objects: objects}
}

// GetByID hides reservations from everyone but their two participants.
func (q *ReservationQueries) GetByID(ctx context.Context, id, actorID uuid.UUID) (*ReservationView, error) {
	view, err := q.reservations.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, err
	}
	if view.RenterID != actorID && view.OwnerID != actorID {
		return nil, errs.ErrNotParticipant
	}
	return view, nil
}

func (q *ReservationQueries) ListForUser(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error) {
	return q.reservations.FindByUserID(ctx, userID)
}

// ListForObject is owner-only; it exposes other renters' bookings.
func (q *ReservationQueries) ListForObject(ctx context.Context, objectID, actorID uuid.UUID) ([]*ReservationView, error) {
	obj, err := q.objects.FindByID(ctx, objectID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrObjectNotFound)
		}
		return nil, err
	}
	if obj.OwnerID != actorID {
		return nil, errs.ErrNotObjectOwner
	}
	return q.reservations.FindByObjectID(ctx, objectID)
}
