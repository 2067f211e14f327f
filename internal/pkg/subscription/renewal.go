package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/hireprivate/staffboard/app/models"
)

// RenewSubscription re-applies the employer's current time-based plan for a
// fresh full term starting now. Renewing from "now" rather than stacking on
// the prior end date is intentional, long-standing billing behavior: the
// 3-day lookahead means each cycle starts slightly before the old one ends.
// The renewal charge is appended to the billing ledger without a gateway
// session id; auto-renewals are not checkout events.
func (s *Service) RenewSubscription(ctx context.Context, employerProfileID uint) error {
	_ = ctx
	sub, err := s.repo.GetByEmployerProfileID(employerProfileID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubscriptionNotFound, err)
	}
	if !sub.AutoRenew {
		return ErrAutoRenewDisabled
	}

	plan := PlanByType(sub.SubscriptionType)
	if plan == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPlan, sub.SubscriptionType)
	}
	if plan.CreditBased {
		return fmt.Errorf("%w: %s", ErrNotRenewable, plan.Type)
	}

	now := time.Now()
	end := now.Add(plan.Duration())
	fields := map[string]interface{}{
		"subscription_type":       plan.Type,
		"subscription_start_date": now,
		"subscription_end_date":   end,
		"has_network_access":      plan.HasNetworkAccess,
		"renewal_period":          plan.RenewalPeriod,
	}
	if plan.HasUnlimitedPosting {
		fields["unlimited_posting_end_date"] = end
	} else {
		fields["unlimited_posting_end_date"] = nil
	}
	if plan.HasNetworkAccess {
		fields["network_access_end_date"] = end
	} else {
		fields["network_access_end_date"] = nil
	}
	if err := s.repo.ApplyPlanUpdate(employerProfileID, fields); err != nil {
		return err
	}

	record := &models.BillingRecord{
		EmployerProfileID: employerProfileID,
		AmountCents:       plan.PriceCents,
		Description:       fmt.Sprintf("Auto-renewal of %s", plan.Name),
		SubscriptionType:  plan.Type,
		Status:            models.BillingStatusCompleted,
	}
	if err := s.repo.CreateBillingRecord(record); err != nil {
		return fmt.Errorf("subscription: record renewal charge: %w", err)
	}

	if profile, err := s.repo.GetEmployerProfile(employerProfileID); err == nil {
		s.notify(profile.ContactEmail, "Subscription renewed",
			fmt.Sprintf("Your %s plan has been renewed through %s.", plan.Name, end.Format("January 2, 2006")))
	}
	return nil
}

// ProcessSubscriptionRenewals runs one renewal pass: every auto-renewing
// subscription whose entitlement expires within the lookahead window gets an
// independent renewal attempt. One employer's failure never aborts the rest;
// failures are counted and logged.
func (s *Service) ProcessSubscriptionRenewals(ctx context.Context) (RenewalReport, error) {
	now := time.Now()
	candidates, err := s.repo.ListRenewalCandidates(now, now.Add(RenewalWindow))
	if err != nil {
		return RenewalReport{}, fmt.Errorf("subscription: list renewal candidates: %w", err)
	}

	var report RenewalReport
	for _, sub := range candidates {
		if err := s.RenewSubscription(ctx, sub.EmployerProfileID); err != nil {
			report.Failed++
			log.Errorf("renewal failed for employer %d: %v", sub.EmployerProfileID, err)
			continue
		}
		report.Renewed++
	}

	if len(candidates) > 0 {
		log.Infof("renewal pass complete: %d renewed, %d failed", report.Renewed, report.Failed)
	}
	return report, nil
}
