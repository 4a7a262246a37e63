package repository

import (
	"context"
	"time"

	"rentloop/internal/infra"
	"rentloop/internal/infra/db"
)

// NotificationRepository enqueues outbox rows for the external
// notification/messaging collaborator. Delivery transport is out of scope;
// this service only records state-change events durably, in the same
// transaction as the mutation that caused them.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	const q = `
		INSERT INTO notification_jobs (kind, topic, payload, run_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'queued', now(), now())`

	if _, err := tx.Exec(ctx, q, kind, topic, payload, runAt); err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}
