package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/hireprivate/staffboard/internal/pkg/cache"
	"github.com/hireprivate/staffboard/internal/pkg/subscription"
)

const subscriptionStatusCacheTTL = 5 * time.Minute

// SubscriptionController exposes the subscription query and purchase surface.
type SubscriptionController struct {
	svc *subscription.Service
}

// NewSubscriptionController creates the controller with an injected service.
func NewSubscriptionController(svc *subscription.Service) *SubscriptionController {
	return &SubscriptionController{svc: svc}
}

func subscriptionStatusCacheKey(employerProfileID uint) string {
	return fmt.Sprintf("subscription:status:%d", employerProfileID)
}

// HandleGetSubscription returns the display-ready subscription summary.
func (ctl *SubscriptionController) HandleGetSubscription(c *fiber.Ctx) error {
	profile, err := resolveEmployerProfile(c)
	if err != nil {
		return err
	}

	info, err := ctl.svc.GetEmployerSubscription(c.Context(), profile.ID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No subscription record"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription"})
	}
	return c.JSON(info)
}

// HandleGetSubscriptionStatus returns the summary plus renewal state, served
// from the cache when fresh.
func (ctl *SubscriptionController) HandleGetSubscriptionStatus(c *fiber.Ctx) error {
	profile, err := resolveEmployerProfile(c)
	if err != nil {
		return err
	}

	key := subscriptionStatusCacheKey(profile.ID)
	if cached, err := cache.Get(key); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	status, err := ctl.svc.GetSubscriptionStatus(c.Context(), profile.ID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No subscription record"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription status"})
	}

	if payload, err := json.Marshal(status); err == nil {
		if err := cache.Set(key, payload, subscriptionStatusCacheTTL); err != nil {
			log.Warnf("failed to cache subscription status for employer %d: %v", profile.ID, err)
		}
	}
	return c.JSON(status)
}

type checkoutRequest struct {
	SubscriptionType string `json:"subscription_type"`
	SuccessURL       string `json:"success_url"`
	CancelURL        string `json:"cancel_url"`
}

// HandleCreateCheckout starts a gateway checkout for a paid plan and returns
// the redirect URL.
func (ctl *SubscriptionController) HandleCreateCheckout(c *fiber.Ctx) error {
	profile, err := resolveEmployerProfile(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	url, err := ctl.svc.CreateCheckoutSession(c.Context(), profile.ID, req.SubscriptionType, req.SuccessURL, req.CancelURL)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrUnknownPlan):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Unknown subscription type"})
		case errors.Is(err, subscription.ErrPlanNotPurchasable):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "This plan cannot be purchased"})
		case errors.Is(err, subscription.ErrProfileNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Employer profile not found"})
		default:
			log.Errorf("checkout session creation failed for employer %d: %v", profile.ID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "payment_gateway_error", "message": "Could not start checkout, please try again"})
		}
	}

	return c.JSON(fiber.Map{"checkout_url": url})
}

// HandleCancelSubscription turns off auto-renewal; current entitlements keep
// running to their stored end date.
func (ctl *SubscriptionController) HandleCancelSubscription(c *fiber.Ctx) error {
	profile, err := resolveEmployerProfile(c)
	if err != nil {
		return err
	}

	if err := ctl.svc.CancelSubscription(c.Context(), profile.ID); err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No subscription record"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to cancel subscription"})
	}

	if err := cache.Delete(subscriptionStatusCacheKey(profile.ID)); err != nil {
		log.Warnf("failed to invalidate subscription status cache for employer %d: %v", profile.ID, err)
	}
	return c.JSON(fiber.Map{"ok": true, "auto_renew": false})
}

// HandleRunRenewals triggers one renewal pass on demand (admin only; the
// scheduler normally runs this daily).
func (ctl *SubscriptionController) HandleRunRenewals(c *fiber.Ctx) error {
	report, err := ctl.svc.ProcessSubscriptionRenewals(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Renewal pass failed"})
	}
	return c.JSON(report)
}
