package shared

import (
	"context"
	"time"

	"rentloop/internal/domain/handover"
	"rentloop/internal/domain/object"
	"rentloop/internal/domain/reservation"
	"rentloop/internal/infra/db"
	"rentloop/internal/infra/repository"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: validation reads outside a transaction
	CommandReads() CommandReads
}

type Tx interface {
	Objects() ObjectRepository
	Reservations() ReservationRepository
	Handovers() HandoverRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

// CommandReads are the snapshot lookups command handlers need before
// applying conditional writes. Inside Within they run on the transaction.
type CommandReads interface {
	ObjectByID(ctx context.Context, id uuid.UUID) (*ObjectSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	HandoverByID(ctx context.Context, id uuid.UUID) (*HandoverSnapshot, error)
	HandoverByToken(ctx context.Context, token string) (*HandoverSnapshot, error)
}

type ObjectRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *object.Object) (uuid.UUID, error)
	SetDerivedStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status object.Status) (bool, error)
	SetStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status object.Status) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	FindStatusDrift(ctx context.Context, tx db.DBTX) ([]repository.DriftRow, error)
}

type ReservationRepository interface {
	CreateIfAvailable(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	UpdateStatusIf(ctx context.Context, tx db.DBTX, id uuid.UUID, from, to reservation.Status) (bool, error)
	ConfirmWithPayment(ctx context.Context, tx db.DBTX, id uuid.UUID, paymentRef string) (bool, error)
	StartDue(ctx context.Context, tx db.DBTX, today time.Time) ([]repository.Transitioned, error)
	CompleteExpired(ctx context.Context, tx db.DBTX, today time.Time) ([]repository.Transitioned, error)
	ActiveCount(ctx context.Context, tx db.DBTX, objectID uuid.UUID) (int, error)
	HasActiveOverlap(ctx context.Context, tx db.DBTX, objectID uuid.UUID, start, end time.Time) (bool, error)
}

type HandoverRepository interface {
	Create(ctx context.Context, tx db.DBTX, h *handover.Handover) (uuid.UUID, error)
	RedeemIfPending(ctx context.Context, tx db.DBTX, token string, outcome handover.Status, actualDate time.Time) (bool, error)
	CancelIfPending(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error)
	CancelPendingByReservation(ctx context.Context, tx db.DBTX, reservationID uuid.UUID) ([]uuid.UUID, error)
	HasRedeemedPickup(ctx context.Context, tx db.DBTX, reservationID uuid.UUID) (bool, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}
