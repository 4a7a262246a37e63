//go:build unit

// Package fake provides an in-memory UnitOfWork for command tests. It
// mirrors the conditional-write semantics of the SQL repositories so the
// state machine can be exercised without a database.
package fake

import (
	"context"
	"sync"
	"time"

	"rentloop/internal/domain/handover"
	"rentloop/internal/domain/object"
	"rentloop/internal/domain/reservation"
	"rentloop/internal/infra"
	"rentloop/internal/infra/db"
	"rentloop/internal/infra/repository"
	"rentloop/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ObjectRow struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	PricePerDay decimal.Decimal
	Status      object.Status
}

type ReservationRow struct {
	ID         uuid.UUID
	ObjectID   uuid.UUID
	RenterID   uuid.UUID
	OwnerID    uuid.UUID
	Start      time.Time
	End        time.Time
	TotalPrice decimal.Decimal
	PaymentRef *string
	Status     reservation.Status
}

type HandoverRow struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	Type          handover.Type
	Token         string
	ScheduledDate time.Time
	ActualDate    *time.Time
	Address       string
	Notes         *string
	Status        handover.Status
}

type Job struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type Store struct {
	mu           sync.Mutex
	Objects      map[uuid.UUID]*ObjectRow
	Reservations map[uuid.UUID]*ReservationRow
	Handovers    map[uuid.UUID]*HandoverRow
	Jobs         []Job
}

func NewStore() *Store {
	return &Store{
		Objects:      make(map[uuid.UUID]*ObjectRow),
		Reservations: make(map[uuid.UUID]*ReservationRow),
		Handovers:    make(map[uuid.UUID]*HandoverRow),
	}
}

func (s *Store) PutObject(row ObjectRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[row.ID] = &row
}

func (s *Store) PutReservation(row ReservationRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reservations[row.ID] = &row
}

func (s *Store) PutHandover(row HandoverRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Handovers[row.ID] = &row
}

func (s *Store) ObjectStatus(id uuid.UUID) object.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.Objects[id]; ok {
		return row.Status
	}
	return ""
}

func (s *Store) ReservationStatus(id uuid.UUID) reservation.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.Reservations[id]; ok {
		return row.Status
	}
	return ""
}

func (s *Store) HandoverStatus(id uuid.UUID) handover.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.Handovers[id]; ok {
		return row.Status
	}
	return ""
}

func (s *Store) JobTopics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	topics := make([]string, len(s.Jobs))
	for i, j := range s.Jobs {
		topics[i] = j.Topic
	}
	return topics
}

// activeCount counts confirmed and ongoing reservations for an object.
func (s *Store) activeCount(objectID uuid.UUID) int {
	n := 0
	for _, r := range s.Reservations {
		if r.ObjectID == objectID && r.Status.IsActive() {
			n++
		}
	}
	return n
}

// hasOtherActiveOverlap mirrors the SQL confirm guard: another active
// reservation on the same object whose period overlaps this one.
func (s *Store) hasOtherActiveOverlap(row *ReservationRow) bool {
	for _, r := range s.Reservations {
		if r.ID == row.ID || r.ObjectID != row.ObjectID || !r.Status.IsActive() {
			continue
		}
		if r.Start.Before(row.End) && row.Start.Before(r.End) {
			return true
		}
	}
	return false
}

// UoW implements shared.UnitOfWork over the store. Within runs the
// function under the store lock's repositories without rollback; tests
// that need rollback semantics assert on the error path instead.
type UoW struct {
	store *Store
}

func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *UoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *UoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *Store
}

func (t *fakeTx) DB() db.DBTX                                 { return nil }
func (t *fakeTx) Objects() shared.ObjectRepository            { return &fakeObjects{store: t.store} }
func (t *fakeTx) Reservations() shared.ReservationRepository  { return &fakeReservations{store: t.store} }
func (t *fakeTx) Handovers() shared.HandoverRepository        { return &fakeHandovers{store: t.store} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &fakeNotifications{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads                  { return &fakeReads{store: t.store} }

type fakeReads struct {
	store *Store
}

func (r *fakeReads) ObjectByID(_ context.Context, id uuid.UUID) (*shared.ObjectSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	row, ok := r.store.Objects[id]
	if !ok {
		return nil, infra.NewRepoErr("object not found", infra.KindNotFound)
	}
	return &shared.ObjectSnapshot{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		PricePerDay: row.PricePerDay,
		Status:      row.Status,
	}, nil
}

func (r *fakeReads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	row, ok := r.store.Reservations[id]
	if !ok {
		return nil, infra.NewRepoErr("reservation not found", infra.KindNotFound)
	}
	return &shared.ReservationSnapshot{
		ID:       row.ID,
		ObjectID: row.ObjectID,
		RenterID: row.RenterID,
		OwnerID:  row.OwnerID,
		Start:    row.Start,
		End:      row.End,
		Status:   row.Status,
	}, nil
}

func (r *fakeReads) HandoverByID(_ context.Context, id uuid.UUID) (*shared.HandoverSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	row, ok := r.store.Handovers[id]
	if !ok {
		return nil, infra.NewRepoErr("handover not found", infra.KindNotFound)
	}
	return handoverSnapshot(row), nil
}

func (r *fakeReads) HandoverByToken(_ context.Context, token string) (*shared.HandoverSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, row := range r.store.Handovers {
		if row.Token == token {
			return handoverSnapshot(row), nil
		}
	}
	return nil, infra.NewRepoErr("handover not found", infra.KindNotFound)
}

func handoverSnapshot(row *HandoverRow) *shared.HandoverSnapshot {
	return &shared.HandoverSnapshot{
		ID:            row.ID,
		ReservationID: row.ReservationID,
		Type:          row.Type,
		Token:         row.Token,
		ScheduledDate: row.ScheduledDate,
		ActualDate:    row.ActualDate,
		Status:        row.Status,
	}
}

type fakeObjects struct {
	store *Store
}

func (f *fakeObjects) Create(_ context.Context, _ db.DBTX, o *object.Object) (uuid.UUID, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.Objects[o.ID()] = &ObjectRow{
		ID:          o.ID(),
		OwnerID:     o.OwnerID(),
		Title:       o.Title(),
		PricePerDay: o.PricePerDay(),
		Status:      o.Status(),
	}
	return o.ID(), nil
}

func (f *fakeObjects) SetDerivedStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status object.Status) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	row, ok := f.store.Objects[id]
	if !ok || row.Status == object.StatusUnavailable || row.Status == status {
		return false, nil
	}
	row.Status = status
	return true, nil
}

func (f *fakeObjects) SetStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status object.Status) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	row, ok := f.store.Objects[id]
	if !ok {
		return infra.NewRepoErr("object not found", infra.KindNotFound)
	}
	row.Status = status
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	delete(f.store.Objects, id)
	return nil
}

func (f *fakeObjects) FindStatusDrift(_ context.Context, _ db.DBTX) ([]repository.DriftRow, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var drift []repository.DriftRow
	for _, row := range f.store.Objects {
		if row.Status == object.StatusUnavailable {
			continue
		}
		active := f.store.activeCount(row.ID)
		if (active > 0) != (row.Status == object.StatusRented) {
			drift = append(drift, repository.DriftRow{
				ObjectID:     row.ID,
				StoredStatus: row.Status,
				ActiveCount:  active,
			})
		}
	}
	return drift, nil
}

type fakeReservations struct {
	store *Store
}

func (f *fakeReservations) CreateIfAvailable(_ context.Context, _ db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, row := range f.store.Reservations {
		if row.ObjectID != res.ObjectID() || !row.Status.IsActive() {
			continue
		}
		if row.Start.Before(res.Period().End()) && res.Period().Start().Before(row.End) {
			return uuid.Nil, infra.NewRepoErr("period conflicts with an active reservation", infra.KindConflict)
		}
	}
	f.store.Reservations[res.ID()] = &ReservationRow{
		ID:         res.ID(),
		ObjectID:   res.ObjectID(),
		RenterID:   res.RenterID(),
		OwnerID:    res.OwnerID(),
		Start:      res.Period().Start(),
		End:        res.Period().End(),
		TotalPrice: res.TotalPrice(),
		Status:     res.Status(),
	}
	return res.ID(), nil
}

func (f *fakeReservations) UpdateStatusIf(_ context.Context, _ db.DBTX, id uuid.UUID, from, to reservation.Status) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	row, ok := f.store.Reservations[id]
	if !ok || row.Status != from {
		return false, nil
	}
	if to == reservation.StatusConfirmed && f.store.hasOtherActiveOverlap(row) {
		return false, nil
	}
	row.Status = to
	return true, nil
}

func (f *fakeReservations) ConfirmWithPayment(_ context.Context, _ db.DBTX, id uuid.UUID, paymentRef string) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	row, ok := f.store.Reservations[id]
	if !ok || row.Status != reservation.StatusPending {
		return false, nil
	}
	if f.store.hasOtherActiveOverlap(row) {
		return false, nil
	}
	row.Status = reservation.StatusConfirmed
	row.PaymentRef = &paymentRef
	return true, nil
}

func (f *fakeReservations) StartDue(_ context.Context, _ db.DBTX, today time.Time) ([]repository.Transitioned, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []repository.Transitioned
	for _, row := range f.store.Reservations {
		if row.Status == reservation.StatusConfirmed && !row.Start.After(today) {
			row.Status = reservation.StatusOngoing
			out = append(out, repository.Transitioned{ReservationID: row.ID, ObjectID: row.ObjectID})
		}
	}
	return out, nil
}

func (f *fakeReservations) CompleteExpired(_ context.Context, _ db.DBTX, today time.Time) ([]repository.Transitioned, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []repository.Transitioned
	for _, row := range f.store.Reservations {
		if row.Status == reservation.StatusOngoing && row.End.Before(today) {
			row.Status = reservation.StatusCompleted
			out = append(out, repository.Transitioned{ReservationID: row.ID, ObjectID: row.ObjectID})
		}
	}
	return out, nil
}

func (f *fakeReservations) ActiveCount(_ context.Context, _ db.DBTX, objectID uuid.UUID) (int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.activeCount(objectID), nil
}

func (f *fakeReservations) HasActiveOverlap(_ context.Context, _ db.DBTX, objectID uuid.UUID, start, end time.Time) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, row := range f.store.Reservations {
		if row.ObjectID == objectID && row.Status.IsActive() &&
			row.Start.Before(end) && start.Before(row.End) {
			return true, nil
		}
	}
	return false, nil
}

type fakeHandovers struct {
	store *Store
}

func (f *fakeHandovers) Create(_ context.Context, _ db.DBTX, h *handover.Handover) (uuid.UUID, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, row := range f.store.Handovers {
		if row.Token == h.Token() {
			return uuid.Nil, infra.NewRepoErr("duplicate token", infra.KindDuplicateKey)
		}
	}
	f.store.Handovers[h.ID()] = &HandoverRow{
		ID:            h.ID(),
		ReservationID: h.ReservationID(),
		Type:          h.Type(),
		Token:         h.Token(),
		ScheduledDate: h.ScheduledDate(),
		Address:       h.Address(),
		Notes:         h.Notes(),
		Status:        h.Status(),
	}
	return h.ID(), nil
}

func (f *fakeHandovers) RedeemIfPending(_ context.Context, _ db.DBTX, token string, outcome handover.Status, actualDate time.Time) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, row := range f.store.Handovers {
		if row.Token == token && row.Status == handover.StatusPending {
			row.Status = outcome
			d := actualDate
			row.ActualDate = &d
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeHandovers) CancelIfPending(_ context.Context, _ db.DBTX, id uuid.UUID) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	row, ok := f.store.Handovers[id]
	if !ok || row.Status != handover.StatusPending {
		return false, nil
	}
	row.Status = handover.StatusCancelled
	return true, nil
}

func (f *fakeHandovers) CancelPendingByReservation(_ context.Context, _ db.DBTX, reservationID uuid.UUID) ([]uuid.UUID, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var cancelled []uuid.UUID
	for _, row := range f.store.Handovers {
		if row.ReservationID == reservationID && row.Status == handover.StatusPending {
			row.Status = handover.StatusCancelled
			cancelled = append(cancelled, row.ID)
		}
	}
	return cancelled, nil
}

func (f *fakeHandovers) HasRedeemedPickup(_ context.Context, _ db.DBTX, reservationID uuid.UUID) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, row := range f.store.Handovers {
		if row.ReservationID == reservationID && row.Type == handover.TypePickup && row.Status == handover.StatusPickedUp {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotifications struct {
	store *Store
}

func (f *fakeNotifications) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.Jobs = append(f.store.Jobs, Job{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}
