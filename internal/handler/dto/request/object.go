package request

import (
	"github.com/shopspring/decimal"

	"rentloop/internal/domain/object"
	"rentloop/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateObjectRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	PricePerDay string   `json:"price_per_day" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Images      []string `json:"images,omitempty"`
}

func (r CreateObjectRequest) ToInput(ownerID uuid.UUID) (commands.CreateObjectInput, error) {
	price, err := decimal.NewFromString(r.PricePerDay)
	if err != nil {
		return commands.CreateObjectInput{}, err
	}

	return commands.CreateObjectInput{
		OwnerID:     ownerID,
		Title:       r.Title,
		Description: r.Description,
		Category:    object.Category(r.Category),
		PricePerDay: price,
		Location:    r.Location,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Images:      r.Images,
	}, nil
}

type UpdateObjectStatusRequest struct {
	// "unavailable" applies the owner override; "available" releases it.
	Status string `json:"status" binding:"required,oneof=available unavailable"`
}
