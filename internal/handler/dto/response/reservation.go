package response

import (
	"time"

	"rentloop/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type ReservationResponse struct {
	ID          uuid.UUID       `json:"id"`
	ObjectID    uuid.UUID       `json:"objectId"`
	ObjectTitle string          `json:"objectTitle"`
	RenterID    uuid.UUID       `json:"renterId"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	PaymentRef  *string         `json:"paymentRef,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromReservationViews(views []*queries.ReservationView) []*ReservationResponse {
	resp := make([]*ReservationResponse, len(views))
	for i, v := range views {
		resp[i] = FromReservationView(v)
	}
	return resp
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}
