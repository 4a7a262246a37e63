//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"rentloop/internal/domain/handover"
	"rentloop/internal/domain/object"
	"rentloop/internal/domain/reservation"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/pkg/errs"
	"rentloop/internal/usecase/commands"
	"rentloop/tests/common/fake"
	commandsmock "rentloop/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// permissiveNotifier accepts any publish. Tests that care about a topic
// set their own expectation instead.
func permissiveNotifier(t *testing.T) *commandsmock.MockNotifier {
	t.Helper()
	n := commandsmock.NewMockNotifier(gomock.NewController(t))
	n.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
	return n
}

func seedObject(store *fake.Store, status object.Status) fake.ObjectRow {
	row := fake.ObjectRow{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Title:       "City bike",
		PricePerDay: decimal.NewFromInt(20),
		Status:      status,
	}
	store.PutObject(row)
	return row
}

func seedReservation(store *fake.Store, obj fake.ObjectRow, status reservation.Status) fake.ReservationRow {
	row := fake.ReservationRow{
		ID:         uuid.New(),
		ObjectID:   obj.ID,
		RenterID:   uuid.New(),
		OwnerID:    obj.OwnerID,
		Start:      date(2026, 3, 4),
		End:        date(2026, 3, 7),
		TotalPrice: decimal.NewFromInt(60),
		Status:     status,
	}
	store.PutReservation(row)
	return row
}

func newReservationCommands(store *fake.Store, notifier commands.Notifier) *commands.ReservationCommands {
	return commands.NewReservationCommands(fake.NewUoW(store), clock.NewMockClock(testNow), notifier)
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("books an available object", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		renterID := uuid.New()

		notifier := commandsmock.NewMockNotifier(gomock.NewController(t))
		notifier.EXPECT().
			Publish(gomock.Any(), gomock.Any(), commands.TopicReservationRequested, gomock.Any()).
			Return(nil)

		cmds := newReservationCommands(store, notifier)
		id, err := cmds.Create(ctx, commands.CreateReservationInput{
			ObjectID:  obj.ID,
			RenterID:  renterID,
			StartDate: "2026-03-04",
			EndDate:   "2026-03-07",
		})
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusPending, store.ReservationStatus(id))
		row := store.Reservations[id]
		assert.True(t, row.TotalPrice.Equal(decimal.NewFromInt(60)))
	})

	t.Run("rejects a period held by an active reservation", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		seedReservation(store, obj, reservation.StatusConfirmed)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		_, err := cmds.Create(ctx, commands.CreateReservationInput{
			ObjectID:  obj.ID,
			RenterID:  uuid.New(),
			StartDate: "2026-03-05",
			EndDate:   "2026-03-09",
		})
		assert.ErrorIs(t, err, errs.ErrBookingConflict)
	})

	t.Run("allows a period that only touches an active one", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		seedReservation(store, obj, reservation.StatusConfirmed)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		_, err := cmds.Create(ctx, commands.CreateReservationInput{
			ObjectID:  obj.ID,
			RenterID:  uuid.New(),
			StartDate: "2026-03-07",
			EndDate:   "2026-03-10",
		})
		assert.NoError(t, err)
	})

	t.Run("unavailable object cannot be booked", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusUnavailable)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		_, err := cmds.Create(ctx, commands.CreateReservationInput{
			ObjectID:  obj.ID,
			RenterID:  uuid.New(),
			StartDate: "2026-03-04",
			EndDate:   "2026-03-07",
		})
		assert.ErrorIs(t, err, errs.ErrObjectUnavailable)
	})

	t.Run("owner cannot book their own object", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		_, err := cmds.Create(ctx, commands.CreateReservationInput{
			ObjectID:  obj.ID,
			RenterID:  obj.OwnerID,
			StartDate: "2026-03-04",
			EndDate:   "2026-03-07",
		})
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
		assert.ErrorIs(t, err, reservation.ErrOwnObject)
	})

	t.Run("unknown object", func(t *testing.T) {
		store := fake.NewStore()

		cmds := newReservationCommands(store, permissiveNotifier(t))
		_, err := cmds.Create(ctx, commands.CreateReservationInput{
			ObjectID:  uuid.New(),
			RenterID:  uuid.New(),
			StartDate: "2026-03-04",
			EndDate:   "2026-03-07",
		})
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("malformed date", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		_, err := cmds.Create(ctx, commands.CreateReservationInput{
			ObjectID:  obj.ID,
			RenterID:  uuid.New(),
			StartDate: "04.03.2026",
			EndDate:   "2026-03-07",
		})
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestAcceptReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("owner confirms and the object becomes rented", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		res := seedReservation(store, obj, reservation.StatusPending)

		notifier := commandsmock.NewMockNotifier(gomock.NewController(t))
		notifier.EXPECT().
			Publish(gomock.Any(), gomock.Any(), commands.TopicReservationConfirmed, gomock.Any()).
			Return(nil)

		cmds := newReservationCommands(store, notifier)
		require.NoError(t, cmds.Accept(ctx, res.ID, obj.OwnerID))

		assert.Equal(t, reservation.StatusConfirmed, store.ReservationStatus(res.ID))
		assert.Equal(t, object.StatusRented, store.ObjectStatus(obj.ID))
	})

	t.Run("only the owner may accept", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		res := seedReservation(store, obj, reservation.StatusPending)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		err := cmds.Accept(ctx, res.ID, res.RenterID)

		assert.ErrorIs(t, err, errs.ErrNotObjectOwner)
		assert.Equal(t, reservation.StatusPending, store.ReservationStatus(res.ID))
	})

	t.Run("accepting twice is an illegal transition", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusConfirmed)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		err := cmds.Accept(ctx, res.ID, obj.OwnerID)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("only one of two overlapping requests can be confirmed", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		first := seedReservation(store, obj, reservation.StatusPending)
		second := seedReservation(store, obj, reservation.StatusPending)
		store.Reservations[second.ID].Start = date(2026, 3, 5)
		store.Reservations[second.ID].End = date(2026, 3, 9)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		require.NoError(t, cmds.Accept(ctx, first.ID, obj.OwnerID))

		err := cmds.Accept(ctx, second.ID, obj.OwnerID)
		assert.ErrorIs(t, err, errs.ErrBookingConflict)
		assert.Equal(t, reservation.StatusConfirmed, store.ReservationStatus(first.ID))
		assert.Equal(t, reservation.StatusPending, store.ReservationStatus(second.ID))
	})

	t.Run("a back-to-back pending request is still acceptable", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		first := seedReservation(store, obj, reservation.StatusPending)
		second := seedReservation(store, obj, reservation.StatusPending)
		store.Reservations[second.ID].Start = date(2026, 3, 7)
		store.Reservations[second.ID].End = date(2026, 3, 10)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		require.NoError(t, cmds.Accept(ctx, first.ID, obj.OwnerID))
		require.NoError(t, cmds.Accept(ctx, second.ID, obj.OwnerID))
	})

	t.Run("a manual override is not clobbered", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusUnavailable)
		res := seedReservation(store, obj, reservation.StatusPending)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		require.NoError(t, cmds.Accept(ctx, res.ID, obj.OwnerID))

		assert.Equal(t, object.StatusUnavailable, store.ObjectStatus(obj.ID))
	})
}

func TestRejectReservation(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()
	obj := seedObject(store, object.StatusAvailable)
	res := seedReservation(store, obj, reservation.StatusPending)

	cmds := newReservationCommands(store, permissiveNotifier(t))
	require.NoError(t, cmds.Reject(ctx, res.ID, obj.OwnerID))

	assert.Equal(t, reservation.StatusRejected, store.ReservationStatus(res.ID))
	assert.Equal(t, object.StatusAvailable, store.ObjectStatus(obj.ID))
}

func TestCancelReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("renter cancels a confirmed reservation", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		res := seedReservation(store, obj, reservation.StatusConfirmed)
		pending := fake.HandoverRow{
			ID:            uuid.New(),
			ReservationID: res.ID,
			Token:         "aaaa",
			Status:        handover.StatusPending,
		}
		store.PutHandover(pending)

		notifier := commandsmock.NewMockNotifier(gomock.NewController(t))
		notifier.EXPECT().
			Publish(gomock.Any(), gomock.Any(), commands.TopicReservationCancelled, gomock.Any()).
			Return(nil)

		cmds := newReservationCommands(store, notifier)
		require.NoError(t, cmds.Cancel(ctx, res.ID, res.RenterID))

		assert.Equal(t, reservation.StatusCancelled, store.ReservationStatus(res.ID))
		assert.Equal(t, handover.StatusCancelled, store.HandoverStatus(pending.ID))
		assert.Equal(t, object.StatusAvailable, store.ObjectStatus(obj.ID))
	})

	t.Run("a stranger cannot cancel", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		res := seedReservation(store, obj, reservation.StatusPending)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		err := cmds.Cancel(ctx, res.ID, uuid.New())

		assert.ErrorIs(t, err, errs.ErrNotParticipant)
	})

	t.Run("completed reservations stay completed", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		res := seedReservation(store, obj, reservation.StatusCompleted)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		err := cmds.Cancel(ctx, res.ID, res.RenterID)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, reservation.StatusCompleted, store.ReservationStatus(res.ID))
	})
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("pending reservation is confirmed with the payment ref", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		res := seedReservation(store, obj, reservation.StatusPending)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		require.NoError(t, cmds.ConfirmPayment(ctx, res.ID, "pay_0001"))

		row := store.Reservations[res.ID]
		assert.Equal(t, reservation.StatusConfirmed, row.Status)
		require.NotNil(t, row.PaymentRef)
		assert.Equal(t, "pay_0001", *row.PaymentRef)
		assert.Equal(t, object.StatusRented, store.ObjectStatus(obj.ID))
	})

	t.Run("retried callback is an illegal transition", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		res := seedReservation(store, obj, reservation.StatusPending)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		require.NoError(t, cmds.ConfirmPayment(ctx, res.ID, "pay_0001"))

		err := cmds.ConfirmPayment(ctx, res.ID, "pay_0001")
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, reservation.StatusConfirmed, store.ReservationStatus(res.ID))
	})

	t.Run("payment loses the period to a confirmed overlap", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusRented)
		seedReservation(store, obj, reservation.StatusConfirmed)
		late := seedReservation(store, obj, reservation.StatusPending)
		store.Reservations[late.ID].Start = date(2026, 3, 5)
		store.Reservations[late.ID].End = date(2026, 3, 9)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		err := cmds.ConfirmPayment(ctx, late.ID, "pay_0003")

		assert.ErrorIs(t, err, errs.ErrBookingConflict)
		assert.Equal(t, reservation.StatusPending, store.ReservationStatus(late.ID))
		require.Nil(t, store.Reservations[late.ID].PaymentRef)
	})

	t.Run("cancelled reservation cannot be paid", func(t *testing.T) {
		store := fake.NewStore()
		obj := seedObject(store, object.StatusAvailable)
		res := seedReservation(store, obj, reservation.StatusCancelled)

		cmds := newReservationCommands(store, permissiveNotifier(t))
		err := cmds.ConfirmPayment(ctx, res.ID, "pay_0002")

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})
}
