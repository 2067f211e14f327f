package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/hireprivate/staffboard/app/controllers"
	"github.com/hireprivate/staffboard/internal/pkg/constants"
	"github.com/hireprivate/staffboard/internal/pkg/middleware"
)

type ApiRouter struct {
	deps Dependencies
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	subCtl := controllers.NewSubscriptionController(h.deps.Subscription)
	jobCtl := controllers.NewJobController(h.deps.Subscription)
	employerCtl := controllers.NewEmployerController(h.deps.Subscription)

	// Public listing view, no API key required
	api.Get("/v1/listings/:uuid", jobCtl.HandleGetJob)

	// API v1 routes (API key protected)
	v1 := api.Group(constants.APIv1Path, middleware.APIKeyAuthMiddleware())

	v1.Post("/employers", employerCtl.HandleCreateEmployer)
	v1.Get("/employers/me", employerCtl.HandleGetEmployer)

	v1.Get("/subscription", subCtl.HandleGetSubscription)
	v1.Get("/subscription/status", subCtl.HandleGetSubscriptionStatus)
	v1.Post("/subscription/checkout", subCtl.HandleCreateCheckout)
	v1.Post("/subscription/cancel", subCtl.HandleCancelSubscription)

	v1.Post("/jobs", jobCtl.HandleCreateJob)
	v1.Get("/jobs/usage", jobCtl.HandleGetJobUsage)

	// Admin routes
	admin := v1.Group("/admin", middleware.RequireAdmin)
	admin.Post("/renewals/run", subCtl.HandleRunRenewals)
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}
