package request

import (
	"rentloop/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ObjectID  uuid.UUID `json:"object_id" binding:"required"`
	StartDate string    `json:"start_date" binding:"required"`
	EndDate   string    `json:"end_date" binding:"required"`
}

func (r CreateReservationRequest) ToInput(renterID uuid.UUID) commands.CreateReservationInput {
	return commands.CreateReservationInput{
		ObjectID:  r.ObjectID,
		RenterID:  renterID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

type PaymentCallbackRequest struct {
	ReservationID uuid.UUID `json:"reservation_id" binding:"required"`
	PaymentRef    string    `json:"payment_ref" binding:"required"`
	Result        string    `json:"result" binding:"required,oneof=succeeded failed"`
}
