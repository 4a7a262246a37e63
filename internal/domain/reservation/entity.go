package reservation

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrIllegalTransition = errors.New("illegal reservation transition")
	ErrOwnObject         = errors.New("owner cannot reserve their own object")
	ErrNotStartedYet     = errors.New("reservation period has not started")
	ErrNotEndedYet       = errors.New("reservation period has not ended")
)

type Reservation struct {
	id         uuid.UUID
	objectID   uuid.UUID
	renterID   uuid.UUID
	ownerID    uuid.UUID
	period     Period
	totalPrice decimal.Decimal
	paymentRef *string
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

// NewReservation creates a reservation in pending. The owner id is a
// denormalized copy of the object's owner at creation time.
func NewReservation(
	objectID, renterID, ownerID uuid.UUID,
	period Period,
	totalPrice decimal.Decimal,
) (*Reservation, error) {
	if renterID == ownerID {
		return nil, ErrOwnObject
	}

	return &Reservation{
		id:         uuid.New(),
		objectID:   objectID,
		renterID:   renterID,
		ownerID:    ownerID,
		period:     period,
		totalPrice: totalPrice,
		status:     StatusPending,
	}, nil
}

func Reconstruct(
	id, objectID, renterID, ownerID uuid.UUID,
	period Period,
	totalPrice decimal.Decimal,
	paymentRef *string,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		objectID:   objectID,
		renterID:   renterID,
		ownerID:    ownerID,
		period:     period,
		totalPrice: totalPrice,
		paymentRef: paymentRef,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (r *Reservation) transition(next Status) error {
	if !r.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, r.status, next)
	}
	r.status = next
	return nil
}

// Accept confirms the reservation on behalf of the owner. Legal only from
// pending; a reservation must never be confirmable twice.
func (r *Reservation) Accept() error {
	return r.transition(StatusConfirmed)
}

func (r *Reservation) Reject() error {
	return r.transition(StatusRejected)
}

// Cancel is legal from pending or confirmed; once the rental is ongoing
// the physical item is out and cancellation is no longer possible.
func (r *Reservation) Cancel() error {
	return r.transition(StatusCancelled)
}

// ConfirmPayment is the payment-driven path to confirmed. It shares the
// pending-only guard with Accept, so the two entry points are mutually
// exclusive.
func (r *Reservation) ConfirmPayment(paymentRef string) error {
	if err := r.transition(StatusConfirmed); err != nil {
		return err
	}
	r.paymentRef = &paymentRef
	return nil
}

// Start moves confirmed -> ongoing once the start date has arrived. Driven
// by the reconciler, not by user action.
func (r *Reservation) Start(today time.Time) error {
	if !r.period.HasStartedBy(today) {
		return ErrNotStartedYet
	}
	return r.transition(StatusOngoing)
}

// Complete moves ongoing -> completed once today is past the end date.
func (r *Reservation) Complete(today time.Time) error {
	if !r.period.HasEndedBy(today) {
		return ErrNotEndedYet
	}
	return r.transition(StatusCompleted)
}

func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}

func (r *Reservation) IsParticipant(userID uuid.UUID) bool {
	return r.renterID == userID || r.ownerID == userID
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) ObjectID() uuid.UUID         { return r.objectID }
func (r *Reservation) RenterID() uuid.UUID         { return r.renterID }
func (r *Reservation) OwnerID() uuid.UUID          { return r.ownerID }
func (r *Reservation) Period() Period              { return r.period }
func (r *Reservation) TotalPrice() decimal.Decimal { return r.totalPrice }
func (r *Reservation) PaymentRef() *string         { return r.paymentRef }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }
