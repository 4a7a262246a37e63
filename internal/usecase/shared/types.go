package shared

import (
	"time"

	"rentloop/internal/domain/handover"
	"rentloop/internal/domain/object"
	"rentloop/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Write-side snapshots keep command code off the read-model query types.

type ObjectSnapshot struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	PricePerDay decimal.Decimal
	Status      object.Status
}

type ReservationSnapshot struct {
	ID       uuid.UUID
	ObjectID uuid.UUID
	RenterID uuid.UUID
	OwnerID  uuid.UUID
	Start    time.Time
	End      time.Time
	Status   reservation.Status
}

func (s ReservationSnapshot) IsParticipant(userID uuid.UUID) bool {
	return s.RenterID == userID || s.OwnerID == userID
}

type HandoverSnapshot struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	Type          handover.Type
	Token         string
	ScheduledDate time.Time
	ActualDate    *time.Time
	Status        handover.Status
}
