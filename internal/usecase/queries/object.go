package queries

import (
	"context"
	"time"

	"rentloop/internal/infra"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/pkg/errs"

	"github.com/google/uuid"
)

type ObjectReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ObjectView, error)
	List(ctx context.Context, filter ObjectFilter) ([]*ObjectView, error)
}

type OverlapReader interface {
	HasActiveOverlap(ctx context.Context, objectID uuid.UUID, start, end time.Time) (bool, error)
}

type AvailabilityResult struct {
	ObjectID  uuid.UUID `json:"object_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
}

type ObjectQueries struct {
	objects  ObjectReader
	overlaps OverlapReader
}

func NewObjectQueries(objects ObjectReader, overlaps OverlapReader) *ObjectQueries {
	return &ObjectQueries{objects: objects, overlaps: overlaps}
}

func (q *ObjectQueries) GetByID(ctx context.Context, id uuid.UUID) (*ObjectView, error) {
	view, err := q.objects.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrObjectNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *ObjectQueries) List(ctx context.Context, filter ObjectFilter) ([]*ObjectView, error) {
	return q.objects.List(ctx, filter)
}

// Availability answers whether the object can be booked for [start, end).
// It is advisory: the booking itself re-checks atomically at insert time.
func (q *ObjectQueries) Availability(ctx context.Context, objectID uuid.UUID, startDate, endDate string) (*AvailabilityResult, error) {
	start, err := clock.ParseDate(startDate)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	end, err := clock.ParseDate(endDate)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if !end.After(start) {
		return nil, errs.Mark(errs.New("end date must be after start date"), errs.ErrDomainValidation)
	}

	obj, err := q.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{
		ObjectID:  objectID,
		StartDate: start,
		EndDate:   end,
	}

	if obj.Status == "unavailable" {
		result.Reason = "object is unavailable"
		return result, nil
	}

	overlap, err := q.overlaps.HasActiveOverlap(ctx, objectID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		result.Reason = "period conflicts with an existing reservation"
		return result, nil
	}

	result.Available = true
	return result, nil
}
