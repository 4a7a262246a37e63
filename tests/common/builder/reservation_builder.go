//go:build unit || e2e

package builder

import (
	"time"

	"rentloop/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationBuilder struct {
	ObjectID    uuid.UUID
	OwnerID     uuid.UUID
	RenterID    uuid.UUID
	PricePerDay decimal.Decimal
	Start       time.Time
	End         time.Time
	Now         time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ObjectID:    uuid.New(),
		OwnerID:     uuid.New(),
		RenterID:    uuid.New(),
		PricePerDay: decimal.NewFromInt(20),
		Start:       now.AddDate(0, 0, 3),
		End:         now.AddDate(0, 0, 6),
		Now:         now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	period, err := reservation.NewPeriod(b.Start, b.End, b.Now)
	if err != nil {
		return nil, err
	}

	total, err := reservation.TotalPrice(b.PricePerDay, period.Days())
	if err != nil {
		return nil, err
	}

	return reservation.NewReservation(b.ObjectID, b.RenterID, b.OwnerID, period, total)
}
