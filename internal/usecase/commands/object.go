package commands

import (
	"context"

	"rentloop/internal/domain/object"
	"rentloop/internal/infra"
	"rentloop/internal/pkg/errs"
	"rentloop/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateObjectInput struct {
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

type ObjectCommands struct {
	uow shared.UnitOfWork
}

func NewObjectCommands(uow shared.UnitOfWork) *ObjectCommands {
	return &ObjectCommands{uow: uow}
}

func (c *ObjectCommands) Create(ctx context.Context, input CreateObjectInput) (uuid.UUID, error) {
	obj, err := object.NewObject(
		input.OwnerID,
		input.Title, input.Description,
		input.Category,
		input.PricePerDay,
		input.Location,
		input.Latitude, input.Longitude,
		input.Images,
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	var id uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err = tx.Objects().Create(ctx, tx.DB(), obj)
		return err
	})
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// SetUnavailable applies the owner override. It wins over the derived
// status until released.
func (c *ObjectCommands) SetUnavailable(ctx context.Context, objectID, actorID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := c.ownedObject(ctx, tx, objectID, actorID)
		if err != nil {
			return err
		}
		if snap.Status == object.StatusUnavailable {
			return nil
		}
		return tx.Objects().SetStatus(ctx, tx.DB(), objectID, object.StatusUnavailable)
	})
}

// ReleaseOverride lifts the manual override and re-derives the status
// from the current active reservation count.
func (c *ObjectCommands) ReleaseOverride(ctx context.Context, objectID, actorID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := c.ownedObject(ctx, tx, objectID, actorID)
		if err != nil {
			return err
		}
		if snap.Status != object.StatusUnavailable {
			return errs.Mark(object.ErrNotUnavailable, errs.ErrDomainValidation)
		}

		active, err := tx.Reservations().ActiveCount(ctx, tx.DB(), objectID)
		if err != nil {
			return err
		}
		return tx.Objects().SetStatus(ctx, tx.DB(), objectID, object.DeriveStatus(active))
	})
}

func (c *ObjectCommands) Delete(ctx context.Context, objectID, actorID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := c.ownedObject(ctx, tx, objectID, actorID); err != nil {
			return err
		}

		active, err := tx.Reservations().ActiveCount(ctx, tx.DB(), objectID)
		if err != nil {
			return err
		}
		if active > 0 {
			return errs.Mark(object.ErrHasActiveRentals, errs.ErrDomainValidation)
		}

		return tx.Objects().Delete(ctx, tx.DB(), objectID)
	})
}

func (c *ObjectCommands) ownedObject(ctx context.Context, tx shared.Tx, objectID, actorID uuid.UUID) (*shared.ObjectSnapshot, error) {
	snap, err := tx.Reads().ObjectByID(ctx, objectID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrObjectNotFound)
		}
		return nil, err
	}
	if snap.OwnerID != actorID {
		return nil, errs.ErrNotObjectOwner
	}
	return snap, nil
}
