//go:build unit || e2e

package builder

import (
	"rentloop/internal/domain/object"
	"rentloop/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ObjectBuilder struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Category    object.Category
	PricePerDay decimal.Decimal
	Location    string
	Latitude    *float64
	Longitude   *float64
	Images      []string
}

func NewObjectBuilder() *ObjectBuilder {
	return &ObjectBuilder{
		OwnerID:     uuid.New(),
		Title:       "Cordless Drill",
		Description: "18V drill with two batteries",
		Category:    object.CategoryTools,
		PricePerDay: decimal.NewFromInt(15),
		Location:    "Berlin",
		Images:      []string{"https://img.example.com/drill.jpg"},
	}
}

func (b *ObjectBuilder) With(mutate func(*ObjectBuilder)) *ObjectBuilder {
	mutate(b)
	return b
}

func (b *ObjectBuilder) BuildDomain() (*object.Object, error) {
	return object.NewObject(
		b.OwnerID,
		b.Title, b.Description,
		b.Category,
		b.PricePerDay,
		b.Location,
		b.Latitude, b.Longitude,
		b.Images,
	)
}

func (b *ObjectBuilder) BuildCreateInput() commands.CreateObjectInput {
	return commands.CreateObjectInput{
		OwnerID:     b.OwnerID,
		Title:       b.Title,
		Description: b.Description,
		Category:    b.Category,
		PricePerDay: b.PricePerDay,
		Location:    b.Location,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
		Images:      b.Images,
	}
}
