package commands

import (
	"context"

	"rentloop/internal/domain/object"
	"rentloop/internal/domain/reservation"
	"rentloop/internal/infra"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/pkg/errs"
	"rentloop/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateReservationInput struct {
	ObjectID  uuid.UUID
	RenterID  uuid.UUID
	StartDate string
	EndDate   string
}

type reservationEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ObjectID      uuid.UUID `json:"object_id"`
	RenterID      uuid.UUID `json:"renter_id"`
	OwnerID       uuid.UUID `json:"owner_id"`
}

type ReservationCommands struct {
	uow      shared.UnitOfWork
	factory  *reservation.Factory
	clock    clock.Clock
	notifier Notifier
}

func NewReservationCommands(uow shared.UnitOfWork, c clock.Clock, notifier Notifier) *ReservationCommands {
	return &ReservationCommands{
		uow:      uow,
		factory:  reservation.NewFactory(c),
		clock:    c,
		notifier: notifier,
	}
}

// Create books the object for the requested period. The availability
// check and the insert run as one conditional statement, so two renters
// racing for the same dates cannot both win.
func (c *ReservationCommands) Create(ctx context.Context, input CreateReservationInput) (uuid.UUID, error) {
	start, err := clock.ParseDate(input.StartDate)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	end, err := clock.ParseDate(input.EndDate)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	var id uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		obj, err := tx.Reads().ObjectByID(ctx, input.ObjectID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrObjectNotFound)
			}
			return err
		}
		if obj.Status == object.StatusUnavailable {
			return errs.ErrObjectUnavailable
		}

		res, err := c.factory.CreateReservation(reservation.ObjectSpec{
			ID:          obj.ID,
			OwnerID:     obj.OwnerID,
			PricePerDay: obj.PricePerDay,
		}, input.RenterID, start, end)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		id, err = tx.Reservations().CreateIfAvailable(ctx, tx.DB(), res)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, errs.ErrBookingConflict)
			}
			return err
		}

		return c.notifier.Publish(ctx, tx.DB(), TopicReservationRequested, reservationEvent{
			ReservationID: id,
			ObjectID:      obj.ID,
			RenterID:      input.RenterID,
			OwnerID:       obj.OwnerID,
		})
	})
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// Accept moves a pending request to confirmed. Only the object owner may
// accept, and a confirmed reservation makes the object rented.
func (c *ReservationCommands) Accept(ctx context.Context, reservationID, actorID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := c.snapshot(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if snap.OwnerID != actorID {
			return errs.ErrNotObjectOwner
		}

		if err := c.applyTransition(ctx, tx, snap, reservation.StatusConfirmed); err != nil {
			return err
		}
		if err := recomputeObjectStatus(ctx, tx, snap.ObjectID); err != nil {
			return err
		}

		return c.publish(ctx, tx, TopicReservationConfirmed, snap)
	})
}

func (c *ReservationCommands) Reject(ctx context.Context, reservationID, actorID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := c.snapshot(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if snap.OwnerID != actorID {
			return errs.ErrNotObjectOwner
		}

		if err := c.applyTransition(ctx, tx, snap, reservation.StatusRejected); err != nil {
			return err
		}

		return c.publish(ctx, tx, TopicReservationRejected, snap)
	})
}

// Cancel is open to either participant while the reservation is pending
// or confirmed. Pending handovers are cancelled in the same transaction
// so no live token survives a dead reservation.
func (c *ReservationCommands) Cancel(ctx context.Context, reservationID, actorID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := c.snapshot(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if !snap.IsParticipant(actorID) {
			return errs.ErrNotParticipant
		}

		if err := c.applyTransition(ctx, tx, snap, reservation.StatusCancelled); err != nil {
			return err
		}

		if _, err := tx.Handovers().CancelPendingByReservation(ctx, tx.DB(), reservationID); err != nil {
			return err
		}
		if err := recomputeObjectStatus(ctx, tx, snap.ObjectID); err != nil {
			return err
		}

		return c.publish(ctx, tx, TopicReservationCancelled, snap)
	})
}

// ConfirmPayment is driven by the payment collaborator's callback.
// A repeated callback hits the already-confirmed state and fails as an
// illegal transition; tolerating the retry is the webhook handler's job.
func (c *ReservationCommands) ConfirmPayment(ctx context.Context, reservationID uuid.UUID, paymentRef string) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := c.snapshot(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if !snap.Status.CanTransitionTo(reservation.StatusConfirmed) {
			return errs.Mark(
				errs.Newf("%s -> %s", snap.Status, reservation.StatusConfirmed),
				errs.ErrIllegalTransition)
		}

		ok, err := tx.Reservations().ConfirmWithPayment(ctx, tx.DB(), reservationID, paymentRef)
		if err != nil {
			return err
		}
		if !ok {
			return c.confirmLost(ctx, tx, snap)
		}

		if err := recomputeObjectStatus(ctx, tx, snap.ObjectID); err != nil {
			return err
		}

		return c.publish(ctx, tx, TopicReservationConfirmed, snap)
	})
}

func (c *ReservationCommands) snapshot(ctx context.Context, tx shared.Tx, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	snap, err := tx.Reads().ReservationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, err
	}
	return snap, nil
}

// applyTransition validates the step against the state machine, then
// applies it as a compare-and-swap. A lost swap means a concurrent
// writer moved the reservation first, or, on the step into confirmed,
// that another active reservation holds the period.
func (c *ReservationCommands) applyTransition(ctx context.Context, tx shared.Tx, snap *shared.ReservationSnapshot, to reservation.Status) error {
	if !snap.Status.CanTransitionTo(to) {
		return errs.Mark(errs.Newf("%s -> %s", snap.Status, to), errs.ErrIllegalTransition)
	}

	ok, err := tx.Reservations().UpdateStatusIf(ctx, tx.DB(), snap.ID, snap.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		if to == reservation.StatusConfirmed {
			return c.confirmLost(ctx, tx, snap)
		}
		return errs.ErrIllegalTransition
	}
	return nil
}

// confirmLost names the reason a conditional confirm wrote zero rows: an
// active overlap on the period is a booking conflict, anything else is a
// concurrent status change.
func (c *ReservationCommands) confirmLost(ctx context.Context, tx shared.Tx, snap *shared.ReservationSnapshot) error {
	overlap, err := tx.Reservations().HasActiveOverlap(ctx, tx.DB(), snap.ObjectID, snap.Start, snap.End)
	if err != nil {
		return err
	}
	if overlap {
		return errs.ErrBookingConflict
	}
	return errs.ErrIllegalTransition
}

func (c *ReservationCommands) publish(ctx context.Context, tx shared.Tx, topic string, snap *shared.ReservationSnapshot) error {
	return c.notifier.Publish(ctx, tx.DB(), topic, reservationEvent{
		ReservationID: snap.ID,
		ObjectID:      snap.ObjectID,
		RenterID:      snap.RenterID,
		OwnerID:       snap.OwnerID,
	})
}

// recomputeObjectStatus re-derives rented/available from the active
// reservation count. The write skips objects under a manual override.
func recomputeObjectStatus(ctx context.Context, tx shared.Tx, objectID uuid.UUID) error {
	active, err := tx.Reservations().ActiveCount(ctx, tx.DB(), objectID)
	if err != nil {
		return err
	}
	_, err = tx.Objects().SetDerivedStatus(ctx, tx.DB(), objectID, object.DeriveStatus(active))
	return err
}
