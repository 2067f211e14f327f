package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/hireprivate/staffboard/internal/pkg/payment"
	"github.com/hireprivate/staffboard/internal/pkg/subscription"
)

// WebhookController receives payment-gateway callbacks. The gateway delivers
// at-least-once; the service layer dedupes on the session id.
type WebhookController struct {
	svc     *subscription.Service
	gateway *payment.StripeGateway
}

// NewWebhookController creates the controller with injected collaborators.
func NewWebhookController(svc *subscription.Service, gateway *payment.StripeGateway) *WebhookController {
	return &WebhookController{svc: svc, gateway: gateway}
}

// HandleStripeWebhook verifies the event signature and reconciles completed
// checkout sessions. Non-checkout events are acknowledged and ignored.
// Processing errors return 500 so the gateway redelivers.
func (ctl *WebhookController) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))

	event, err := ctl.gateway.ParseWebhookEvent(payload, signature)
	if err != nil {
		log.Warnf("stripe webhook rejected: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	if event.SessionID == "" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	if err := ctl.svc.HandleSuccessfulPayment(c.Context(), event.SessionID); err != nil {
		log.Errorf("stripe webhook %s processing failed: %v", event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_processing_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
