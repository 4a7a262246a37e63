package notify

import (
	"context"
	"encoding/json"

	"rentloop/internal/infra/db"
	"rentloop/internal/infra/repository"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/pkg/errs"
)

const jobKindEvent = "event"

// OutboxNotifier records events as outbox rows on the caller's
// transaction. A separate worker drains the table; nothing here talks to
// the network.
type OutboxNotifier struct {
	repo  *repository.NotificationRepository
	clock clock.Clock
}

func NewOutboxNotifier(c clock.Clock) *OutboxNotifier {
	return &OutboxNotifier{
		repo:  repository.NewNotificationRepository(),
		clock: c,
	}
}

func (n *OutboxNotifier) Publish(ctx context.Context, dbtx db.DBTX, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to encode event payload")
	}
	return n.repo.CreateJob(ctx, dbtx, jobKindEvent, topic, payload, n.clock.Now())
}
