package components

import (
	"rentloop/internal/handler"
	"rentloop/internal/handler/api"
	"rentloop/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewObjectHandler,
		api.NewReservationHandler,
		api.NewHandoverHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
