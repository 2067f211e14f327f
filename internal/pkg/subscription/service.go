package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/hireprivate/staffboard/app/models"
	"github.com/hireprivate/staffboard/internal/pkg/payment"
	"gorm.io/gorm"
)

// Mailer sends a notification email. Wired to mail.SendMail in production and
// to a recorder in tests.
type Mailer func(to, subject, body string) error

// Service owns all subscription state transitions and entitlement queries.
// The repository and payment gateway are injected; the service holds no
// global state of its own.
type Service struct {
	repo    Repository
	gateway payment.Gateway
	mailer  Mailer
}

// NewService creates a subscription service from injected collaborators.
func NewService(repo Repository, gateway payment.Gateway, mailer Mailer) *Service {
	return &Service{repo: repo, gateway: gateway, mailer: mailer}
}

// NewServiceFromDB creates a subscription service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gateway payment.Gateway, mailer Mailer) *Service {
	return NewService(NewRepository(db), gateway, mailer)
}

// ---------- Entitlement evaluation ----------

func dateActive(t *time.Time, now time.Time) bool {
	return t != nil && !now.After(*t)
}

func subscriptionActive(sub *models.EmployerSubscription, now time.Time) bool {
	if sub.SubscriptionType == models.SubscriptionTypeTrial {
		return !now.After(sub.SubscriptionStartDate.Add(TrialDuration))
	}
	return dateActive(sub.SubscriptionEndDate, now)
}

// Network access implies unlimited posting.
func unlimitedPostingActive(sub *models.EmployerSubscription, now time.Time) bool {
	return dateActive(sub.UnlimitedPostingEndDate, now) || dateActive(sub.NetworkAccessEndDate, now)
}

// HasActiveSubscription reports whether the employer's current plan period is
// still running. Trials run 30 days from the start date; paid plans run to
// their stored end date. Fails closed: any lookup error denies.
func (s *Service) HasActiveSubscription(ctx context.Context, employerProfileID uint) bool {
	_ = ctx
	sub, err := s.repo.GetByEmployerProfileID(employerProfileID)
	if err != nil {
		log.Warnf("subscription lookup failed for employer %d: %v", employerProfileID, err)
		return false
	}
	return subscriptionActive(sub, time.Now())
}

// HasActiveUnlimitedPosting reports whether unlimited posting is active,
// either directly or via network access. Fails closed.
func (s *Service) HasActiveUnlimitedPosting(ctx context.Context, employerProfileID uint) bool {
	_ = ctx
	sub, err := s.repo.GetByEmployerProfileID(employerProfileID)
	if err != nil {
		log.Warnf("subscription lookup failed for employer %d: %v", employerProfileID, err)
		return false
	}
	return unlimitedPostingActive(sub, time.Now())
}

// HasActiveNetworkAccess reports whether the network entitlement is active.
// Computed from the stored end date, not the cached boolean. Fails closed.
func (s *Service) HasActiveNetworkAccess(ctx context.Context, employerProfileID uint) bool {
	_ = ctx
	sub, err := s.repo.GetByEmployerProfileID(employerProfileID)
	if err != nil {
		log.Warnf("subscription lookup failed for employer %d: %v", employerProfileID, err)
		return false
	}
	return dateActive(sub.NetworkAccessEndDate, time.Now())
}

// ---------- Job posting gate ----------

// CanPostJob is the gate callers check before accepting a listing. True when
// unlimited posting is active or at least one credit remains. Fails closed.
func (s *Service) CanPostJob(ctx context.Context, employerProfileID uint) bool {
	_ = ctx
	sub, err := s.repo.GetByEmployerProfileID(employerProfileID)
	if err != nil {
		log.Warnf("subscription lookup failed for employer %d: %v", employerProfileID, err)
		return false
	}
	return unlimitedPostingActive(sub, time.Now()) || sub.JobCredits > 0
}

// HandleJobPosting consumes the posting capacity for one accepted listing.
// Call exactly once per accepted post, after CanPostJob returned true in the
// same logical operation. Without an unlimited entitlement one credit is
// consumed via a conditional atomic decrement; with zero credits left the
// call fails with ErrNoPostingCapacity as a defensive second check.
func (s *Service) HandleJobPosting(ctx context.Context, employerProfileID uint) error {
	_ = ctx
	sub, err := s.repo.GetByEmployerProfileID(employerProfileID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubscriptionNotFound, err)
	}

	if !unlimitedPostingActive(sub, time.Now()) {
		consumed, err := s.repo.ConsumeJobCredit(employerProfileID)
		if err != nil {
			return err
		}
		if !consumed {
			return ErrNoPostingCapacity
		}
	}

	return s.repo.IncrementJobsPosted(employerProfileID)
}

// GetActiveJobsCount counts listings created at/after since that are ACTIVE
// or FILLED and not expired beyond the 60-day grace window. Pass the current
// period's subscription start date so jobs from an earlier trial don't count
// against a paid plan.
func (s *Service) GetActiveJobsCount(ctx context.Context, employerProfileID uint, since time.Time) (int64, error) {
	_ = ctx
	return s.repo.CountActiveJobs(employerProfileID, since, time.Now())
}

// ---------- Subscription mutation ----------

// UpdateEmployerSubscription applies a purchased plan to the stored record.
// Credit plans only add credits and record gateway identifiers; time plans
// replace the subscription period and entitlement dates. Not idempotent:
// callers must dedupe per purchase via the billing ledger's session id.
func (s *Service) UpdateEmployerSubscription(ctx context.Context, employerProfileID uint, subscriptionType, stripeCustomerID, stripeSessionID string) error {
	_ = ctx
	plan := PlanByType(subscriptionType)
	if plan == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPlan, subscriptionType)
	}

	if _, err := s.repo.GetByEmployerProfileID(employerProfileID); err != nil {
		return fmt.Errorf("%w: %v", ErrSubscriptionNotFound, err)
	}

	if plan.CreditBased {
		// One write: a failure grants nothing, so a retried delivery of the
		// same purchase never double-grants.
		return s.repo.ApplyCreditGrant(employerProfileID, plan.CreditGrant, stripeCustomerID, stripeSessionID)
	}

	now := time.Now()
	end := now.Add(plan.Duration())
	fields := map[string]interface{}{
		"subscription_type":       plan.Type,
		"subscription_start_date": now,
		"subscription_end_date":   end,
		"has_network_access":      plan.HasNetworkAccess,
		"auto_renew":              plan.AutoRenew,
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
	if stripeCustomerID != "" {
		fields["stripe_customer_id"] = stripeCustomerID
	}
	if stripeSessionID != "" {
		fields["stripe_session_id"] = stripeSessionID
	}

	return s.repo.ApplyPlanUpdate(employerProfileID, fields)
}

// ---------- Trial initialization ----------

// InitializeTrialSubscription sets up the trial for a freshly created
// employer or agency profile. Agencies start with free posting credits;
// employers start with none. An unresolved role falls back to the agency
// grant for accounts that predate the role split. The subscription row must
// already exist (it is created with the profile).
func (s *Service) InitializeTrialSubscription(ctx context.Context, employerProfileID uint, userRole string) error {
	_ = ctx
	if _, err := s.repo.GetByEmployerProfileID(employerProfileID); err != nil {
		return fmt.Errorf("%w: %v", ErrSubscriptionNotFound, err)
	}

	credits := uint(AgencyTrialCredits)
	if userRole == models.ROLE_EMPLOYER {
		credits = 0
	}

	return s.repo.ApplyPlanUpdate(employerProfileID, map[string]interface{}{
		"subscription_type":       models.SubscriptionTypeTrial,
		"subscription_start_date": time.Now(),
		"job_credits":             credits,
		"job_post_limit":          credits,
	})
}

// ---------- Queries ----------

// GetEmployerSubscription returns the display-ready subscription summary.
func (s *Service) GetEmployerSubscription(ctx context.Context, employerProfileID uint) (*SubscriptionInfo, error) {
	_ = ctx
	sub, err := s.repo.GetByEmployerProfileID(employerProfileID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubscriptionNotFound, err)
	}
	info := buildInfo(sub, time.Now())
	return &info, nil
}

// GetSubscriptionStatus returns the summary plus renewal state and the
// computed days until the current period expires.
func (s *Service) GetSubscriptionStatus(ctx context.Context, employerProfileID uint) (*SubscriptionStatus, error) {
	_ = ctx
	sub, err := s.repo.GetByEmployerProfileID(employerProfileID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubscriptionNotFound, err)
	}

	now := time.Now()
	status := &SubscriptionStatus{
		SubscriptionInfo: buildInfo(sub, now),
		Active:           subscriptionActive(sub, now),
		AutoRenew:        sub.AutoRenew,
		RenewalPeriod:    sub.RenewalPeriod,
	}

	if end := effectiveEndDate(sub); end != nil && end.After(now) {
		status.DaysUntilExpiry = int(end.Sub(now).Hours() / 24)
	}
	return status, nil
}

// CancelSubscription turns off auto-renewal only. The current entitlement
// keeps running until its stored end date.
func (s *Service) CancelSubscription(ctx context.Context, employerProfileID uint) error {
	_ = ctx
	if _, err := s.repo.GetByEmployerProfileID(employerProfileID); err != nil {
		return fmt.Errorf("%w: %v", ErrSubscriptionNotFound, err)
	}
	return s.repo.ApplyPlanUpdate(employerProfileID, map[string]interface{}{
		"auto_renew": false,
	})
}

func buildInfo(sub *models.EmployerSubscription, now time.Time) SubscriptionInfo {
	planName := sub.SubscriptionType
	if plan := PlanByType(sub.SubscriptionType); plan != nil {
		planName = plan.Name
	}
	return SubscriptionInfo{
		SubscriptionType:      sub.SubscriptionType,
		PlanName:              planName,
		SubscriptionStartDate: sub.SubscriptionStartDate,
		SubscriptionEndDate:   sub.SubscriptionEndDate,
		JobCredits:            sub.JobCredits,
		JobPostLimit:          sub.JobPostLimit,
		JobsPostedCount:       sub.JobsPostedCount,
		UnlimitedPosting:      unlimitedPostingActive(sub, now),
		NetworkAccess:         dateActive(sub.NetworkAccessEndDate, now),
	}
}

// effectiveEndDate is the trial's computed expiry or the stored period end.
func effectiveEndDate(sub *models.EmployerSubscription) *time.Time {
	if sub.SubscriptionType == models.SubscriptionTypeTrial {
		end := sub.SubscriptionStartDate.Add(TrialDuration)
		return &end
	}
	return sub.SubscriptionEndDate
}

func (s *Service) notify(to, subject, body string) {
	if s.mailer == nil || to == "" {
		return
	}
	go func() {
		if err := s.mailer(to, subject, body); err != nil {
			log.Warnf("subscription notification to %s failed: %v", to, err)
		}
	}()
}
