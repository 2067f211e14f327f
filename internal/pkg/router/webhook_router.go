package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hireprivate/staffboard/app/controllers"
	"github.com/hireprivate/staffboard/internal/pkg/constants"
)

type WebhookRouter struct {
	deps Dependencies
}

// InstallRouter registers gateway callback endpoints. These authenticate via
// webhook signature, never via API keys.
func (h WebhookRouter) InstallRouter(app *fiber.App) {
	webhookCtl := controllers.NewWebhookController(h.deps.Subscription, h.deps.Gateway)
	app.Post(constants.StripeWebhookRoute, webhookCtl.HandleStripeWebhook)
}

func NewWebhookRouter(deps Dependencies) *WebhookRouter {
	return &WebhookRouter{deps: deps}
}
