//go:build unit

package commands_test

import (
	"context"
	"testing"

	"rentloop/internal/domain/handover"
	"rentloop/internal/domain/object"
	"rentloop/internal/domain/reservation"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/pkg/errs"
	"rentloop/internal/usecase/commands"
	"rentloop/tests/common/fake"
	commandsmock "rentloop/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newHandoverCommands(store *fake.Store, notifier commands.Notifier) *commands.HandoverCommands {
	return commands.NewHandoverCommands(fake.NewUoW(store), clock.NewMockClock(testNow), notifier)
}

func seedHandover(store *fake.Store, res fake.ReservationRow, typ handover.Type, status handover.Status, token string) fake.HandoverRow {
	row := fake.HandoverRow{
		ID:            uuid.New(),
		ReservationID: res.ID,
		Type:          typ,
		Token:         token,
		ScheduledDate: res.Start,
		Address:       "Warschauer Str. 70, Berlin",
		Status:        status,
	}
	store.PutHandover(row)
	return row
}

func TestIssueToken(t *testing.T) {
	ctx := context.Background()

	t.Run("participant gets a token for a confirmed reservation", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusConfirmed)

		notifier := commandsmock.NewMockNotifier(gomock.NewController(t))
		notifier.EXPECT().
			Publish(gomock.Any(), gomock.Any(), commands.TopicHandoverIssued, gomock.Any()).
			Return(nil)

		cmds := newHandoverCommands(store, notifier)
		issued, err := cmds.IssueToken(ctx, commands.IssueHandoverInput{
			ReservationID: res.ID,
			ActorID:       res.RenterID,
			Type:          handover.TypePickup,
			ScheduledDate: res.Start,
			Address:       "Warschauer Str. 70, Berlin",
		})
		require.NoError(t, err)

		assert.Len(t, issued.Token, 64)
		assert.Equal(t, handover.StatusPending, store.HandoverStatus(issued.ID))
	})

	t.Run("pending reservation has no handovers", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		res := seedReservation(store, obj, reservation.StatusPending)

		cmds := newHandoverCommands(store, permissiveNotifier(t))
		_, err := cmds.IssueToken(ctx, commands.IssueHandoverInput{
			ReservationID: res.ID,
			ActorID:       res.OwnerID,
			Type:          handover.TypePickup,
			ScheduledDate: res.Start,
			Address:       "Warschauer Str. 70, Berlin",
		})
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("strangers cannot issue", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusConfirmed)

		cmds := newHandoverCommands(store, permissiveNotifier(t))
		_, err := cmds.IssueToken(ctx, commands.IssueHandoverInput{
			ReservationID: res.ID,
			ActorID:       uuid.New(),
			Type:          handover.TypePickup,
			ScheduledDate: res.Start,
			Address:       "Warschauer Str. 70, Berlin",
		})
		assert.ErrorIs(t, err, errs.ErrNotParticipant)
	})

	t.Run("blank address fails validation", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusConfirmed)

		cmds := newHandoverCommands(store, permissiveNotifier(t))
		_, err := cmds.IssueToken(ctx, commands.IssueHandoverInput{
			ReservationID: res.ID,
			ActorID:       res.RenterID,
			Type:          handover.TypePickup,
			ScheduledDate: res.Start,
			Address:       "   ",
		})
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestRedeemToken(t *testing.T) {
	ctx := context.Background()

	t.Run("pickup starts the rental", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusConfirmed)
		h := seedHandover(store, res, handover.TypePickup, handover.StatusPending, "tok-pickup")

		notifier := commandsmock.NewMockNotifier(gomock.NewController(t))
		notifier.EXPECT().
			Publish(gomock.Any(), gomock.Any(), commands.TopicHandoverRedeemed, gomock.Any()).
			Return(nil)

		cmds := newHandoverCommands(store, notifier)
		require.NoError(t, cmds.Redeem(ctx, "tok-pickup", res.OwnerID))

		assert.Equal(t, handover.StatusPickedUp, store.HandoverStatus(h.ID))
		assert.Equal(t, reservation.StatusOngoing, store.ReservationStatus(res.ID))
		assert.Equal(t, object.StatusRented, store.ObjectStatus(obj.ID))
	})

	t.Run("return after pickup completes the rental", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusOngoing)
		seedHandover(store, res, handover.TypePickup, handover.StatusPickedUp, "tok-pickup")
		h := seedHandover(store, res, handover.TypeReturn, handover.StatusPending, "tok-return")

		cmds := newHandoverCommands(store, permissiveNotifier(t))
		require.NoError(t, cmds.Redeem(ctx, "tok-return", res.RenterID))

		assert.Equal(t, handover.StatusReturned, store.HandoverStatus(h.ID))
		assert.Equal(t, reservation.StatusCompleted, store.ReservationStatus(res.ID))
		assert.Equal(t, object.StatusAvailable, store.ObjectStatus(obj.ID))
	})

	t.Run("return before pickup is refused", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusOngoing)
		h := seedHandover(store, res, handover.TypeReturn, handover.StatusPending, "tok-return")

		cmds := newHandoverCommands(store, permissiveNotifier(t))
		err := cmds.Redeem(ctx, "tok-return", res.RenterID)

		assert.ErrorIs(t, err, errs.ErrReturnBeforePickup)
		assert.Equal(t, handover.StatusPending, store.HandoverStatus(h.ID))
		assert.Equal(t, reservation.StatusOngoing, store.ReservationStatus(res.ID))
	})

	t.Run("a token is single use", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusConfirmed)
		seedHandover(store, res, handover.TypePickup, handover.StatusPending, "tok-pickup")

		cmds := newHandoverCommands(store, permissiveNotifier(t))
		require.NoError(t, cmds.Redeem(ctx, "tok-pickup", res.RenterID))

		err := cmds.Redeem(ctx, "tok-pickup", res.RenterID)
		assert.ErrorIs(t, err, errs.ErrAlreadyRedeemed)
		assert.Equal(t, reservation.StatusOngoing, store.ReservationStatus(res.ID))
	})

	t.Run("unknown token", func(t *testing.T) {
		store := fake.NewStore()

		cmds := newHandoverCommands(store, permissiveNotifier(t))
		err := cmds.Redeem(ctx, "no-such-token", uuid.New())

		assert.ErrorIs(t, err, errs.ErrTokenNotFound)
	})

	t.Run("strangers cannot redeem", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusConfirmed)
		h := seedHandover(store, res, handover.TypePickup, handover.StatusPending, "tok-pickup")

		cmds := newHandoverCommands(store, permissiveNotifier(t))
		err := cmds.Redeem(ctx, "tok-pickup", uuid.New())

		assert.ErrorIs(t, err, errs.ErrNotParticipant)
		assert.Equal(t, handover.StatusPending, store.HandoverStatus(h.ID))
	})
}

func TestCancelHandover(t *testing.T) {
	ctx := context.Background()

	t.Run("pending handover is voided", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusConfirmed)
		h := seedHandover(store, res, handover.TypePickup, handover.StatusPending, "tok-pickup")

		cmds := newHandoverCommands(store, permissiveNotifier(t))
		require.NoError(t, cmds.Cancel(ctx, h.ID, res.OwnerID))

		assert.Equal(t, handover.StatusCancelled, store.HandoverStatus(h.ID))
	})

	t.Run("redeemed handovers cannot be cancelled", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusOngoing)
		h := seedHandover(store, res, handover.TypePickup, handover.StatusPickedUp, "tok-pickup")

		cmds := newHandoverCommands(store, permissiveNotifier(t))
		err := cmds.Cancel(ctx, h.ID, res.OwnerID)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, handover.StatusPickedUp, store.HandoverStatus(h.ID))
	})
}
