package repository

import (
	"context"

	"rentloop/internal/domain/object"
	"rentloop/internal/infra"
	"rentloop/internal/infra/db"

	"github.com/google/uuid"
)

type ObjectRepository struct{}

func NewObjectRepository() *ObjectRepository {
	return &ObjectRepository{}
}

func (r *ObjectRepository) Create(ctx context.Context, tx db.DBTX, o *object.Object) (uuid.UUID, error) {
	const q = `
		INSERT INTO objects (
			id, owner_id, title, description, category, price_per_day,
			location, latitude, longitude, images, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, q,
		o.ID(), o.OwnerID(), o.Title(), o.Description(), o.Category().String(),
		o.PricePerDay(), o.Location(), o.Latitude(), o.Longitude(), o.Images(),
		o.Status().String(),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("object owner does not exist", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create object", err)
	}

	return id, nil
}

// SetDerivedStatus writes a status computed by the object status policy.
// The manual-unavailable override is respected here as well: the guard
// keeps the reconciler and transition paths from clobbering it.
// Returns true when the stored status actually changed.
func (r *ObjectRepository) SetDerivedStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status object.Status) (bool, error) {
	const q = `
		UPDATE objects
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status <> 'unavailable' AND status <> $2`

	tag, err := tx.Exec(ctx, q, id, status.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update object status", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetStatus is the owner-override path and bypasses the derivation guard.
func (r *ObjectRepository) SetStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status object.Status) error {
	const q = `UPDATE objects SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := tx.Exec(ctx, q, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to set object status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("object not found", infra.KindNotFound)
	}
	return nil
}

func (r *ObjectRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	const q = `DELETE FROM objects WHERE id = $1`

	tag, err := tx.Exec(ctx, q, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("object still referenced by reservations", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to delete object", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("object not found", infra.KindNotFound)
	}
	return nil
}

// DriftRow is an object whose stored status disagrees with the count of
// active reservations referencing it.
type DriftRow struct {
	ObjectID     uuid.UUID
	StoredStatus object.Status
	ActiveCount  int
}

// FindStatusDrift returns objects whose stored status does not match what
// the active-reservation count implies. Manually unavailable objects are
// excluded: the override is outside the derivation rule.
func (r *ObjectRepository) FindStatusDrift(ctx context.Context, tx db.DBTX) ([]DriftRow, error) {
	const q = `
		SELECT o.id, o.status, COUNT(r.id) FILTER (WHERE r.status IN ('confirmed', 'ongoing')) AS active
		FROM objects o
		LEFT JOIN reservations r ON r.object_id = o.id
		WHERE o.status <> 'unavailable'
		GROUP BY o.id, o.status
		HAVING (COUNT(r.id) FILTER (WHERE r.status IN ('confirmed', 'ongoing')) > 0) <> (o.status = 'rented')`

	rows, err := tx.Query(ctx, q)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan for status drift", err)
	}
	defer rows.Close()

	var drift []DriftRow
	for rows.Next() {
		var d DriftRow
		var status string
		if err := rows.Scan(&d.ObjectID, &status, &d.ActiveCount); err != nil {
			return nil, infra.WrapRepoErr("failed to scan drift row", err)
		}
		d.StoredStatus = object.Status(status)
		drift = append(drift, d)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate drift rows", err)
	}

	return drift, nil
}
