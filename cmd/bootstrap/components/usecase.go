package components

import (
	"rentloop/internal/infra/notify"
	"rentloop/internal/pkg/clock"
	"rentloop/internal/usecase/commands"
	"rentloop/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		notify.NewOutboxNotifier,
		fx.As(new(commands.Notifier)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewObjectCommands,
		commands.NewReservationCommands,
		commands.NewHandoverCommands,
		commands.NewReconciler,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewObjectQueries,
		queries.NewReservationQueries,
		queries.NewHandoverQueries,
	),
)
