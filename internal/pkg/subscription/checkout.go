package subscription

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2/log"
	"github.com/hireprivate/staffboard/app/models"
	"github.com/hireprivate/staffboard/internal/pkg/payment"
)

// Metadata keys carried through the gateway checkout session so the webhook
// can recover the purchase context.
const (
	metaEmployerProfileID = "employer_profile_id"
	metaSubscriptionType  = "subscription_type"
)

// CreateCheckoutSession builds a gateway checkout for the given plan and
// returns the redirect URL. Free plans are rejected; the trial is not bought.
func (s *Service) CreateCheckoutSession(ctx context.Context, employerProfileID uint, subscriptionType, successURL, cancelURL string) (string, error) {
	plan := PlanByType(subscriptionType)
	if plan == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, subscriptionType)
	}
	if !plan.Purchasable() {
		return "", fmt.Errorf("%w: %s", ErrPlanNotPurchasable, plan.Type)
	}

	if _, err := s.repo.GetEmployerProfile(employerProfileID); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProfileNotFound, err)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		AmountCents: plan.PriceCents,
		Currency:    "usd",
		Description: plan.Name,
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
		Metadata: map[string]string{
			metaEmployerProfileID: strconv.FormatUint(uint64(employerProfileID), 10),
			metaSubscriptionType:  plan.Type,
		},
	})
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// HandleSuccessfulPayment is the webhook entry point for a completed
// checkout. It retrieves the session from the gateway and applies the
// purchase exactly once:
//
//	retrieve -> paid + metadata? -> PENDING billing record -> mutate -> COMPLETED
//
// Sessions that are unpaid or missing metadata are logged and skipped without
// error; not every callback is a completed, eligible payment. Duplicate
// deliveries of the same session id collapse on the billing ledger's unique
// session index: PENDING and COMPLETED records are skipped, but a FAILED
// record is flipped back to PENDING and retried, so a redelivery after a
// transient failure still applies the paid purchase. On any failure after the
// PENDING insert the record is best-effort marked FAILED and the original
// error is re-raised so the gateway retries delivery.
func (s *Service) HandleSuccessfulPayment(ctx context.Context, sessionID string) error {
	session, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("subscription: retrieve checkout session: %w", err)
	}

	if session.PaymentStatus != payment.PaymentStatusPaid {
		log.Infof("checkout session %s not paid (status %q), skipping", sessionID, session.PaymentStatus)
		return nil
	}

	rawEmployerID := session.Metadata[metaEmployerProfileID]
	subscriptionType := session.Metadata[metaSubscriptionType]
	if rawEmployerID == "" || subscriptionType == "" {
		log.Warnf("checkout session %s missing purchase metadata, skipping", sessionID)
		return nil
	}
	employerID64, err := strconv.ParseUint(rawEmployerID, 10, 64)
	if err != nil {
		log.Warnf("checkout session %s carries invalid employer id %q, skipping", sessionID, rawEmployerID)
		return nil
	}
	employerProfileID := uint(employerID64)

	plan := PlanByType(subscriptionType)
	if plan == nil {
		log.Warnf("checkout session %s references unknown plan %q, skipping", sessionID, subscriptionType)
		return nil
	}

	profile, err := s.repo.GetEmployerProfile(employerProfileID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfileNotFound, err)
	}

	sid := sessionID
	record := &models.BillingRecord{
		EmployerProfileID: employerProfileID,
		AmountCents:       plan.PriceCents,
		Description:       fmt.Sprintf("Purchase of %s", plan.Name),
		SubscriptionType:  plan.Type,
		Status:            models.BillingStatusPending,
		StripeSessionID:   &sid,
	}
	created, err := s.repo.CreateBillingRecordIfNew(record)
	if err != nil {
		return fmt.Errorf("subscription: create billing record: %w", err)
	}
	if !created {
		// Dedupe means "never double-grant", not "never re-grant": a FAILED
		// record is an unapplied paid purchase and must be retried.
		retrying, err := s.repo.RetryFailedBillingRecord(sessionID)
		if err != nil {
			return fmt.Errorf("subscription: reopen billing record: %w", err)
		}
		if !retrying {
			log.Infof("checkout session %s already processed, skipping duplicate delivery", sessionID)
			return nil
		}
		log.Infof("checkout session %s previously failed, retrying", sessionID)
	}

	if err := s.UpdateEmployerSubscription(ctx, employerProfileID, plan.Type, session.CustomerID, sessionID); err != nil {
		s.markFailedBestEffort(sessionID)
		return err
	}

	if err := s.repo.UpdateBillingRecordStatus(sessionID, models.BillingStatusCompleted); err != nil {
		s.markFailedBestEffort(sessionID)
		return fmt.Errorf("subscription: complete billing record: %w", err)
	}

	s.notify(profile.ContactEmail, "Payment received",
		fmt.Sprintf("Thank you! Your %s purchase for %s is active.", plan.Name, profile.CompanyName))
	return nil
}

// A secondary failure while flagging the record is logged, not escalated; the
// original error is what the caller needs to see.
func (s *Service) markFailedBestEffort(sessionID string) {
	if err := s.repo.UpdateBillingRecordStatus(sessionID, models.BillingStatusFailed); err != nil {
		log.Errorf("failed to mark billing record %s as FAILED: %v", sessionID, err)
	}
}
