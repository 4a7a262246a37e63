package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"rentloop/internal/handler/api"
	"rentloop/internal/handler/middleware"
	"rentloop/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	objectHandler *api.ObjectHandler,
	reservationHandler *api.ReservationHandler,
	handoverHandler *api.HandoverHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, objectHandler, reservationHandler, handoverHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	objectHandler *api.ObjectHandler,
	reservationHandler *api.ReservationHandler,
	handoverHandler *api.HandoverHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		objects := apiGroup.Group("/objects")
		{
			addRoutes(objects, []route{
				{Method: http.MethodGet, Path: "", Handler: objectHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: objectHandler.Get},
				{Method: http.MethodGet, Path: "/:id/availability", Handler: objectHandler.Availability},
			})

			authRequired := objects.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: objectHandler.Create},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: objectHandler.UpdateStatus},
				{Method: http.MethodDelete, Path: "/:id", Handler: objectHandler.Delete},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: reservationHandler.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.Get},
				{Method: http.MethodPost, Path: "/:id/accept", Handler: reservationHandler.Accept},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: reservationHandler.Reject},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: reservationHandler.Cancel},
				{Method: http.MethodPost, Path: "/:id/handovers", Handler: handoverHandler.Issue},
				{Method: http.MethodGet, Path: "/:id/handovers", Handler: handoverHandler.ListForReservation},
			})
		}

		handovers := apiGroup.Group("/handovers")
		handovers.Use(authMiddleware.RequireAuth())
		{
			addRoutes(handovers, []route{
				{Method: http.MethodPost, Path: "/redeem", Handler: handoverHandler.Redeem},
				{Method: http.MethodDelete, Path: "/:id", Handler: handoverHandler.Cancel},
			})
		}

		// Collaborator webhook; authenticated by shared knowledge of the
		// reservation and payment reference, not a user token.
		apiGroup.POST("/payments/callback", reservationHandler.PaymentCallback)
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		case http.MethodPut:
			g.PUT(r.Path, r.Handler)
		case http.MethodPatch:
			g.PATCH(r.Path, r.Handler)
		case http.MethodDelete:
			g.DELETE(r.Path, r.Handler)
		default:
			g.Any(r.Path, r.Handler)
		}
	}
}
