package object

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle       = errors.New("object title cannot be empty")
	ErrTitleTooLong     = errors.New("object title is too long (max 255 characters)")
	ErrInvalidCategory  = errors.New("invalid object category")
	ErrNonPositivePrice = errors.New("price per day must be positive")
	ErrEmptyLocation    = errors.New("object location cannot be empty")
	ErrNotUnavailable   = errors.New("object is not manually unavailable")
	ErrHasActiveRentals = errors.New("object has active reservations")
)

const MaxTitleLength = 255

type Object struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	title       string
	description string
	category    Category
	pricePerDay decimal.Decimal
	location    string
	latitude    *float64
	longitude   *float64
	images      []string
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func NewObject(
	ownerID uuid.UUID,
	title, description string,
	category Category,
	pricePerDay decimal.Decimal,
	location string,
	latitude, longitude *float64,
	images []string,
) (*Object, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if !pricePerDay.IsPositive() {
		return nil, ErrNonPositivePrice
	}
	if strings.TrimSpace(location) == "" {
		return nil, ErrEmptyLocation
	}

	return &Object{
		id:          uuid.New(),
		ownerID:     ownerID,
		title:       title,
		description: strings.TrimSpace(description),
		category:    category,
		pricePerDay: pricePerDay,
		location:    strings.TrimSpace(location),
		latitude:    latitude,
		longitude:   longitude,
		images:      images,
		status:      StatusAvailable,
	}, nil
}

func Reconstruct(
	id, ownerID uuid.UUID,
	title, description string,
	category Category,
	pricePerDay decimal.Decimal,
	location string,
	latitude, longitude *float64,
	images []string,
	status Status,
	createdAt, updatedAt time.Time,
) *Object {
	return &Object{
		id:          id,
		ownerID:     ownerID,
		title:       title,
		description: description,
		category:    category,
		pricePerDay: pricePerDay,
		location:    location,
		latitude:    latitude,
		longitude:   longitude,
		images:      images,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// MarkUnavailable is the owner override: it sits outside the derivation
// rule and wins over it until released.
func (o *Object) MarkUnavailable() {
	o.status = StatusUnavailable
}

// ReleaseOverride returns the object to derived status. The caller supplies
// the current active reservation count so the derivation stays in policy.
func (o *Object) ReleaseOverride(activeReservations int) error {
	if o.status != StatusUnavailable {
		return ErrNotUnavailable
	}
	o.status = DeriveStatus(activeReservations)
	return nil
}

func (o *Object) IsOwnedBy(userID uuid.UUID) bool {
	return o.ownerID == userID
}

func (o *Object) ID() uuid.UUID                { return o.id }
func (o *Object) OwnerID() uuid.UUID           { return o.ownerID }
func (o *Object) Title() string                { return o.title }
func (o *Object) Description() string          { return o.description }
func (o *Object) Category() Category           { return o.category }
func (o *Object) PricePerDay() decimal.Decimal { return o.pricePerDay }
func (o *Object) Location() string             { return o.location }
func (o *Object) Latitude() *float64           { return o.latitude }
func (o *Object) Longitude() *float64          { return o.longitude }
func (o *Object) Images() []string             { return o.images }
func (o *Object) Status() Status               { return o.status }
func (o *Object) CreatedAt() time.Time         { return o.createdAt }
func (o *Object) UpdatedAt() time.Time         { return o.updatedAt }
