package response

import (
	"time"

	"rentloop/internal/usecase/commands"
	"rentloop/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type HandoverResponse struct {
	ID            uuid.UUID  `json:"id"`
	ReservationID uuid.UUID  `json:"reservationId"`
	Type          string     `json:"type"`
	Token         string     `json:"token"`
	ScheduledDate time.Time  `json:"scheduledDate"`
	ActualDate    *time.Time `json:"actualDate,omitempty"`
	Address       string     `json:"address"`
	Notes         *string    `json:"notes,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func FromHandoverView(v *queries.HandoverView) *HandoverResponse {
	var resp HandoverResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromHandoverViews(views []*queries.HandoverView) []*HandoverResponse {
	resp := make([]*HandoverResponse, len(views))
	for i, v := range views {
		resp[i] = FromHandoverView(v)
	}
	return resp
}

type IssuedHandoverResponse struct {
	ID    uuid.UUID `json:"id"`
	Token string    `json:"token"`
}

func FromIssuedHandover(h *commands.IssuedHandover) *IssuedHandoverResponse {
	return &IssuedHandoverResponse{ID: h.ID, Token: h.Token}
}
