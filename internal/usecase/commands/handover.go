package commands

import (
	"context"
	"time"

	"rentloop/internal/domain/handover"
	"rentloop/internal/domain/reservation"
	"rentloop/internal/infra"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/pkg/errs"
	"rentloop/internal/usecase/shared"

	"github.com/google/uuid"
)

type IssueHandoverInput struct {
	ReservationID uuid.UUID
	ActorID       uuid.UUID
	Type          handover.Type
	ScheduledDate time.Time
	Address       string
	Notes         *string
}

type IssuedHandover struct {
	ID    uuid.UUID
	Token string
}

type handoverEvent struct {
	HandoverID    uuid.UUID     `json:"handover_id"`
	ReservationID uuid.UUID     `json:"reservation_id"`
	Type          handover.Type `json:"type"`
}

type HandoverCommands struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	notifier Notifier
}

func NewHandoverCommands(uow shared.UnitOfWork, c clock.Clock, notifier Notifier) *HandoverCommands {
	return &HandoverCommands{uow: uow, clock: c, notifier: notifier}
}

// IssueToken creates a pending handover with a fresh single-use token.
// Tokens only exist for live reservations, so the reservation must be
// confirmed or ongoing and the caller must be a participant.
func (c *HandoverCommands) IssueToken(ctx context.Context, input IssueHandoverInput) (*IssuedHandover, error) {
	var issued IssuedHandover
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := c.reservationFor(ctx, tx, input.ReservationID, input.ActorID)
		if err != nil {
			return err
		}
		if !res.Status.IsActive() {
			return errs.Mark(
				errs.Newf("reservation is %s", res.Status),
				errs.ErrIllegalTransition)
		}

		h, err := handover.NewHandover(
			input.ReservationID,
			input.Type,
			input.ScheduledDate,
			input.Address,
			input.Notes,
			c.clock.Now(),
		)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		id, err := tx.Handovers().Create(ctx, tx.DB(), h)
		if err != nil {
			return err
		}
		issued = IssuedHandover{ID: id, Token: h.Token()}

		return c.notifier.Publish(ctx, tx.DB(), TopicHandoverIssued, handoverEvent{
			HandoverID:    id,
			ReservationID: input.ReservationID,
			Type:          input.Type,
		})
	})
	if err != nil {
		return nil, err
	}

	return &issued, nil
}

// Redeem resolves a token exactly once. A pickup on a confirmed
// reservation starts the rental; a return on an ongoing one completes
// it. Returns cannot be redeemed before the pickup.
func (c *HandoverCommands) Redeem(ctx context.Context, token string, actorID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().HandoverByToken(ctx, token)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrTokenNotFound)
			}
			return err
		}
		if snap.Status != handover.StatusPending {
			return errs.ErrAlreadyRedeemed
		}

		res, err := c.reservationFor(ctx, tx, snap.ReservationID, actorID)
		if err != nil {
			return err
		}

		if snap.Type == handover.TypeReturn {
			picked, err := tx.Handovers().HasRedeemedPickup(ctx, tx.DB(), snap.ReservationID)
			if err != nil {
				return err
			}
			if !picked {
				return errs.ErrReturnBeforePickup
			}
		}

		today := clock.Today(c.clock)
		ok, err := tx.Handovers().RedeemIfPending(ctx, tx.DB(), token, snap.Type.RedeemedStatus(), today)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ErrAlreadyRedeemed
		}

		if err := c.advanceReservation(ctx, tx, res, snap.Type); err != nil {
			return err
		}

		return c.notifier.Publish(ctx, tx.DB(), TopicHandoverRedeemed, handoverEvent{
			HandoverID:    snap.ID,
			ReservationID: snap.ReservationID,
			Type:          snap.Type,
		})
	})
}

func (c *HandoverCommands) Cancel(ctx context.Context, handoverID, actorID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().HandoverByID(ctx, handoverID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrHandoverNotFound)
			}
			return err
		}

		if _, err := c.reservationFor(ctx, tx, snap.ReservationID, actorID); err != nil {
			return err
		}

		ok, err := tx.Handovers().CancelIfPending(ctx, tx.DB(), handoverID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.Mark(handover.ErrAlreadyResolved, errs.ErrIllegalTransition)
		}
		return nil
	})
}

func (c *HandoverCommands) reservationFor(ctx context.Context, tx shared.Tx, reservationID, actorID uuid.UUID) (*shared.ReservationSnapshot, error) {
	res, err := tx.Reads().ReservationByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, err
	}
	if !res.IsParticipant(actorID) {
		return nil, errs.ErrNotParticipant
	}
	return res, nil
}

// advanceReservation applies the lifecycle side effect of a redemption.
// Both swaps tolerate a concurrent move; the redemption itself already
// succeeded.
func (c *HandoverCommands) advanceReservation(ctx context.Context, tx shared.Tx, res *shared.ReservationSnapshot, typ handover.Type) error {
	switch {
	case typ == handover.TypePickup && res.Status == reservation.StatusConfirmed:
		if _, err := tx.Reservations().UpdateStatusIf(ctx, tx.DB(), res.ID, reservation.StatusConfirmed, reservation.StatusOngoing); err != nil {
			return err
		}
	case typ == handover.TypeReturn && res.Status == reservation.StatusOngoing:
		if _, err := tx.Reservations().UpdateStatusIf(ctx, tx.DB(), res.ID, reservation.StatusOngoing, reservation.StatusCompleted); err != nil {
			return err
		}
	default:
		return nil
	}

	return recomputeObjectStatus(ctx, tx, res.ObjectID)
}
