package response

import (
	"time"

	"rentloop/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type ObjectResponse struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	PricePerDay decimal.Decimal `json:"pricePerDay"`
	Location    string          `json:"location"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
	Images      []string        `json:"images"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func FromObjectView(v *queries.ObjectView) *ObjectResponse {
	var resp ObjectResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromObjectViews(views []*queries.ObjectView) []*ObjectResponse {
	resp := make([]*ObjectResponse, len(views))
	for i, v := range views {
		resp[i] = FromObjectView(v)
	}
	return resp
}

type AvailabilityResponse struct {
	ObjectID  uuid.UUID `json:"objectId"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
}

func FromAvailability(r *queries.AvailabilityResult) *AvailabilityResponse {
	return &AvailabilityResponse{
		ObjectID:  r.ObjectID,
		StartDate: r.StartDate.Format("2006-01-02"),
		EndDate:   r.EndDate.Format("2006-01-02"),
		Available: r.Available,
		Reason:    r.Reason,
	}
}
