package readstore

import (
	"context"
	"fmt"

	"rentloop/internal/domain/object"
	"rentloop/internal/infra"
	"rentloop/internal/infra/db"
	"rentloop/internal/usecase/queries"
	"rentloop/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ObjectReadStore struct {
	db db.DBTX
}

func NewObjectReadStore(dbtx db.DBTX) *ObjectReadStore {
	return &ObjectReadStore{db: dbtx}
}

const objectColumns = `
	id, owner_id, title, description, category, price_per_day,
	location, latitude, longitude, images, status, created_at, updated_at`

func (r *ObjectReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ObjectView, error) {
	q := `SELECT` + objectColumns + ` FROM objects WHERE id = $1`

	return r.scanOne(r.db.QueryRow(ctx, q, id))
}

func (r *ObjectReadStore) List(ctx context.Context, filter queries.ObjectFilter) ([]*queries.ObjectView, error) {
	q := `SELECT` + objectColumns + ` FROM objects`
	var args []any
	var conds []string

	if filter.Category != nil {
		args = append(args, *filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list objects", err)
	}
	defer rows.Close()

	var views []*queries.ObjectView
	for rows.Next() {
		v, err := scanObjectRow(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate objects", err)
	}

	return views, nil
}

// SnapshotByID is the write-side validation read.
func (r *ObjectReadStore) SnapshotByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.ObjectSnapshot, error) {
	const q = `SELECT id, owner_id, title, price_per_day, status FROM objects WHERE id = $1`

	var s shared.ObjectSnapshot
	var status string
	err := dbtx.QueryRow(ctx, q, id).Scan(&s.ID, &s.OwnerID, &s.Title, &s.PricePerDay, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("object not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read object snapshot", err)
	}
	s.Status = object.Status(status)

	return &s, nil
}

func (r *ObjectReadStore) scanOne(row pgx.Row) (*queries.ObjectView, error) {
	v, err := scanObjectInto(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("object not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find object", err)
	}
	return v, nil
}

func scanObjectRow(rows pgx.Rows) (*queries.ObjectView, error) {
	v, err := scanObjectInto(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan object row", err)
	}
	return v, nil
}

func scanObjectInto(row pgx.Row) (*queries.ObjectView, error) {
	var v queries.ObjectView
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.Category,
		&v.PricePerDay, &v.Location, &v.Latitude, &v.Longitude,
		&v.Images, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
