package readstore

import (
	"context"

	"rentloop/internal/domain/handover"
	"rentloop/internal/infra"
	"rentloop/internal/infra/db"
	"rentloop/internal/usecase/queries"
	"rentloop/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type HandoverReadStore struct {
	db db.DBTX
}

func NewHandoverReadStore(dbtx db.DBTX) *HandoverReadStore {
	return &HandoverReadStore{db: dbtx}
}

const handoverColumns = `
	id, reservation_id, type, token, scheduled_date, actual_date,
	address, notes, status, created_at, updated_at`

func (r *HandoverReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.HandoverView, error) {
	q := `SELECT` + handoverColumns + ` FROM handovers WHERE id = $1`

	v, err := scanHandover(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("handover not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find handover", err)
	}
	return v, nil
}

func (r *HandoverReadStore) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*queries.HandoverView, error) {
	q := `SELECT` + handoverColumns + ` FROM handovers WHERE reservation_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list handovers", err)
	}
	defer rows.Close()

	var views []*queries.HandoverView
	for rows.Next() {
		v, err := scanHandover(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan handover row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate handovers", err)
	}

	return views, nil
}

func (r *HandoverReadStore) SnapshotByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.HandoverSnapshot, error) {
	const q = `
		SELECT id, reservation_id, type, token, scheduled_date, actual_date, status
		FROM handovers WHERE id = $1`

	return scanHandoverSnapshot(dbtx.QueryRow(ctx, q, id))
}

func (r *HandoverReadStore) SnapshotByToken(ctx context.Context, dbtx db.DBTX, token string) (*shared.HandoverSnapshot, error) {
	const q = `
		SELECT id, reservation_id, type, token, scheduled_date, actual_date, status
		FROM handovers WHERE token = $1`

	return scanHandoverSnapshot(dbtx.QueryRow(ctx, q, token))
}

func scanHandoverSnapshot(row pgx.Row) (*shared.HandoverSnapshot, error) {
	var s shared.HandoverSnapshot
	var typ, status string
	err := row.Scan(&s.ID, &s.ReservationID, &typ, &s.Token, &s.ScheduledDate, &s.ActualDate, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("handover not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read handover snapshot", err)
	}
	s.Type = handover.Type(typ)
	s.Status = handover.Status(status)

	return &s, nil
}

func scanHandover(row pgx.Row) (*queries.HandoverView, error) {
	var v queries.HandoverView
	err := row.Scan(
		&v.ID, &v.ReservationID, &v.Type, &v.Token, &v.ScheduledDate,
		&v.ActualDate, &v.Address, &v.Notes, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
