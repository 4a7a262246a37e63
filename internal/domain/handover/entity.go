package handover

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var (
	ErrInvalidType      = errors.New("invalid handover type")
	ErrEmptyAddress     = errors.New("handover address cannot be empty")
	ErrAlreadyResolved  = errors.New("handover already resolved")
	ErrWrongTypeOutcome = errors.New("redemption outcome does not match handover type")
)

type Handover struct {
	id            uuid.UUID
	reservationID uuid.UUID
	typ           Type
	token         string
	scheduledDate time.Time
	actualDate    *time.Time
	address       string
	notes         *string
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
}

func NewHandover(
	reservationID uuid.UUID,
	typ Type,
	scheduledDate time.Time,
	address string,
	notes *string,
	now time.Time,
) (*Handover, error) {
	if !typ.IsValid() {
		return nil, ErrInvalidType
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	token, err := NewToken(reservationID, typ, now)
	if err != nil {
		return nil, err
	}

	return &Handover{
		id:            uuid.New(),
		reservationID: reservationID,
		typ:           typ,
		token:         token,
		scheduledDate: scheduledDate,
		address:       address,
		notes:         notes,
		status:        StatusPending,
	}, nil
}

func Reconstruct(
	id, reservationID uuid.UUID,
	typ Type,
	token string,
	scheduledDate time.Time,
	actualDate *time.Time,
	address string,
	notes *string,
	status Status,
	createdAt, updatedAt time.Time,
) *Handover {
	return &Handover{
		id:            id,
		reservationID: reservationID,
		typ:           typ,
		token:         token,
		scheduledDate: scheduledDate,
		actualDate:    actualDate,
		address:       address,
		notes:         notes,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Redeem consumes the token: pending -> picked_up/returned, at most once.
// Any later call fails because every non-pending status is terminal.
func (h *Handover) Redeem(now time.Time) error {
	if h.status != StatusPending {
		return fmt.Errorf("%w: status is %s", ErrAlreadyResolved, h.status)
	}
	h.status = h.typ.RedeemedStatus()
	h.actualDate = &now
	return nil
}

// Cancel voids an unredeemed handover. Redeemed handovers stay as they are.
func (h *Handover) Cancel() error {
	if h.status != StatusPending {
		return fmt.Errorf("%w: status is %s", ErrAlreadyResolved, h.status)
	}
	h.status = StatusCancelled
	return nil
}

func (h *Handover) IsRedeemed() bool {
	return h.status == StatusPickedUp || h.status == StatusReturned
}

func (h *Handover) ID() uuid.UUID            { return h.id }
func (h *Handover) ReservationID() uuid.UUID { return h.reservationID }
func (h *Handover) Type() Type               { return h.typ }
func (h *Handover) Token() string            { return h.token }
func (h *Handover) ScheduledDate() time.Time { return h.scheduledDate }
func (h *Handover) ActualDate() *time.Time   { return h.actualDate }
func (h *Handover) Address() string          { return h.address }
func (h *Handover) Notes() *string           { return h.notes }
func (h *Handover) Status() Status           { return h.status }
func (h *Handover) CreatedAt() time.Time     { return h.createdAt }
func (h *Handover) UpdatedAt() time.Time     { return h.updatedAt }
