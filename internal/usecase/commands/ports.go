package commands

import (
	"context"

	"rentloop/internal/infra/db"
)

// Notifier enqueues a domain event for asynchronous delivery. The write
// must share the caller's transaction so the event never outlives a
// rolled-back state change.
type Notifier interface {
	Publish(ctx context.Context, dbtx db.DBTX, topic string, event any) error
}

// Event topics consumed by the notification worker.
const (
	TopicReservationRequested = "reservation.requested"
	TopicReservationConfirmed = "reservation.confirmed"
	TopicReservationRejected  = "reservation.rejected"
	TopicReservationCancelled = "reservation.cancelled"
	TopicReservationStarted   = "reservation.started"
	TopicReservationCompleted = "reservation.completed"
	TopicHandoverIssued       = "handover.issued"
	TopicHandoverRedeemed     = "handover.redeemed"
)
