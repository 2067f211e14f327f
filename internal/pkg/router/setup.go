package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hireprivate/staffboard/internal/pkg/payment"
	"github.com/hireprivate/staffboard/internal/pkg/subscription"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies carries the shared collaborators the routers wire into their
// controllers. Constructed once at startup.
type Dependencies struct {
	Subscription *subscription.Service
	Gateway      *payment.StripeGateway
}

// InstallRouter installs the webhook routes first (they must not sit behind
// API key auth), then the authenticated API routes.
func InstallRouter(app *fiber.App, deps Dependencies) {
	setup(app, NewWebhookRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
