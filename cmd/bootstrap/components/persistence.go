package components

import (
	"rentloop/internal/infra/db"
	"rentloop/internal/infra/readstore"
	"rentloop/internal/infra/uow"
	"rentloop/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork
		uow.NewPostgresUoW,
		// Read stores
		fx.Annotate(
			readstore.NewObjectReadStore,
			fx.As(new(queries.ObjectReader)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReader)),
			fx.As(new(queries.OverlapReader)),
		),
		fx.Annotate(
			readstore.NewHandoverReadStore,
			fx.As(new(queries.HandoverReader)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
