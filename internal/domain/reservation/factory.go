package reservation

import (
	"time"

	"rentloop/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObjectSpec is the slice of an object the factory needs; it keeps the
// reservation package from depending on the object aggregate.
type ObjectSpec struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	PricePerDay decimal.Decimal
}

type Factory struct {
	clock clock.Clock
}

func NewFactory(c clock.Clock) *Factory {
	return &Factory{clock: c}
}

// CreateReservation validates the requested period against the factory's
// clock and prices it from the object's current rate. Availability against
// existing reservations is the persistence layer's concern; the insert and
// the overlap check happen in one statement there.
func (f *Factory) CreateReservation(
	obj ObjectSpec,
	renterID uuid.UUID,
	start, end time.Time,
) (*Reservation, error) {
	period, err := NewPeriod(start, end, f.clock.Now())
	if err != nil {
		return nil, err
	}

	total, err := TotalPrice(obj.PricePerDay, period.Days())
	if err != nil {
		return nil, err
	}

	return NewReservation(obj.ID, renterID, obj.OwnerID, period, total)
}
