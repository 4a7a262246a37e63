//go:build unit || e2e

package builder

import (
	"time"

	"rentloop/internal/domain/handover"

	"github.com/google/uuid"
)

type HandoverBuilder struct {
	ReservationID uuid.UUID
	Type          handover.Type
	ScheduledDate time.Time
	Address       string
	Notes         *string
	Now           time.Time
}

func NewHandoverBuilder() *HandoverBuilder {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &HandoverBuilder{
		ReservationID: uuid.New(),
		Type:          handover.TypePickup,
		ScheduledDate: now.AddDate(0, 0, 3),
		Address:       "Warschauer Str. 70, Berlin",
		Now:           now,
	}
}

func (b *HandoverBuilder) With(mutate func(*HandoverBuilder)) *HandoverBuilder {
	mutate(b)
	return b
}

func (b *HandoverBuilder) BuildDomain() (*handover.Handover, error) {
	return handover.NewHandover(b.ReservationID, b.Type, b.ScheduledDate, b.Address, b.Notes, b.Now)
}
