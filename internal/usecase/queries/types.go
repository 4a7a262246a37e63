package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)

type ObjectView struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	Location    string          `json:"location"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
	Images      []string        `json:"images"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ReservationView struct {
	ID          uuid.UUID       `json:"id"`
	ObjectID    uuid.UUID       `json:"object_id"`
	ObjectTitle string          `json:"object_title"`
	RenterID    uuid.UUID       `json:"renter_id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	PaymentRef  *string         `json:"payment_ref,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type HandoverView struct {
	ID            uuid.UUID  `json:"id"`
	ReservationID uuid.UUID  `json:"reservation_id"`
	Type          string     `json:"type"`
	Token         string     `json:"token"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	ActualDate    *time.Time `json:"actual_date,omitempty"`
	Address       string     `json:"address"`
	Notes         *string    `json:"notes,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ObjectFilter struct {
	Category *string
	OwnerID  *uuid.UUID
	Status   *string
}
