package request

import (
	"rentloop/internal/domain/handover"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/usecase/commands"

	"github.com/google/uuid"
)

type IssueHandoverRequest struct {
	Type          string  `json:"type" binding:"required,oneof=pickup return"`
	ScheduledDate string  `json:"scheduled_date" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	Notes         *string `json:"notes,omitempty"`
}

func (r IssueHandoverRequest) ToInput(reservationID, actorID uuid.UUID) (commands.IssueHandoverInput, error) {
	scheduled, err := clock.ParseDate(r.ScheduledDate)
	if err != nil {
		return commands.IssueHandoverInput{}, err
	}

	return commands.IssueHandoverInput{
		ReservationID: reservationID,
		ActorID:       actorID,
		Type:          handover.Type(r.Type),
		ScheduledDate: scheduled,
		Address:       r.Address,
		Notes:         r.Notes,
	}, nil
}

type RedeemHandoverRequest struct {
	Token string `json:"token" binding:"required"`
}
