package subscription

import (
	"fmt"
	"sync"
	"time"

	"github.com/hireprivate/staffboard/app/models"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository with the same conditional-update
// semantics as the GORM implementation, so service tests exercise the real
// credit and idempotency behavior without a database.
type fakeRepo struct {
	mu sync.Mutex

	subs     map[uint]*models.EmployerSubscription
	profiles map[uint]*models.EmployerProfile
	jobs     []models.Job
	billing  []*models.BillingRecord
	sessions map[string]bool

	nextBillingID uint

	// Error injection.
	getSubErr        error
	getProfileErr    error
	applyErr         error
	createBillingErr error
	updateStatusErr  error
	listErr          error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		subs:     make(map[uint]*models.EmployerSubscription),
		profiles: make(map[uint]*models.EmployerProfile),
		sessions: make(map[string]bool),
	}
}

func (f *fakeRepo) addProfile(id uint, companyName, contactEmail string) {
	f.profiles[id] = &models.EmployerProfile{ID: id, UserID: id, CompanyName: companyName, ContactEmail: contactEmail}
}

func (f *fakeRepo) addSubscription(sub models.EmployerSubscription) {
	f.subs[sub.EmployerProfileID] = &sub
}

func (f *fakeRepo) GetByEmployerProfileID(employerProfileID uint) (*models.EmployerSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getSubErr != nil {
		return nil, f.getSubErr
	}
	sub, ok := f.subs[employerProfileID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeRepo) CreateForEmployer(employerProfileID uint) (*models.EmployerSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := &models.EmployerSubscription{
		ID:                    uint(len(f.subs) + 1),
		EmployerProfileID:     employerProfileID,
		SubscriptionType:      models.SubscriptionTypeTrial,
		SubscriptionStartDate: time.Now(),
	}
	f.subs[employerProfileID] = sub
	copied := *sub
	return &copied, nil
}

func (f *fakeRepo) ApplyPlanUpdate(employerProfileID uint, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	sub, ok := f.subs[employerProfileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "subscription_type":
			sub.SubscriptionType = v.(string)
		case "subscription_start_date":
			sub.SubscriptionStartDate = v.(time.Time)
		case "subscription_end_date":
			sub.SubscriptionEndDate = asTimePtr(v)
		case "unlimited_posting_end_date":
			sub.UnlimitedPostingEndDate = asTimePtr(v)
		case "network_access_end_date":
			sub.NetworkAccessEndDate = asTimePtr(v)
		case "has_network_access":
			sub.HasNetworkAccess = v.(bool)
		case "auto_renew":
			sub.AutoRenew = v.(bool)
		case "renewal_period":
			sub.RenewalPeriod = v.(string)
		case "job_credits":
			sub.JobCredits = v.(uint)
		case "job_post_limit":
			sub.JobPostLimit = v.(uint)
		case "stripe_customer_id":
			sub.StripeCustomerID = v.(string)
		case "stripe_session_id":
			sub.StripeSessionID = v.(string)
		default:
			return fmt.Errorf("fakeRepo: unhandled field %q", k)
		}
	}
	return nil
}

func asTimePtr(v interface{}) *time.Time {
	if v == nil {
		return nil
	}
	t := v.(time.Time)
	return &t
}

// ApplyCreditGrant mirrors the single-UPDATE grant: on failure nothing is
// written, never credits without the gateway ids.
func (f *fakeRepo) ApplyCreditGrant(employerProfileID uint, credits uint, stripeCustomerID, stripeSessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	sub, ok := f.subs[employerProfileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sub.JobCredits += credits
	if stripeCustomerID != "" {
		sub.StripeCustomerID = stripeCustomerID
	}
	if stripeSessionID != "" {
		sub.StripeSessionID = stripeSessionID
	}
	return nil
}

// ConsumeJobCredit mirrors the conditional UPDATE: the decrement only happens
// while credits remain.
func (f *fakeRepo) ConsumeJobCredit(employerProfileID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[employerProfileID]
	if !ok || sub.JobCredits == 0 {
		return false, nil
	}
	sub.JobCredits--
	return true, nil
}

func (f *fakeRepo) IncrementJobsPosted(employerProfileID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[employerProfileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sub.JobsPostedCount++
	return nil
}

func (f *fakeRepo) ListRenewalCandidates(from, to time.Time) ([]models.EmployerSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	inWindow := func(t *time.Time) bool {
		return t != nil && !t.Before(from) && !t.After(to)
	}
	var out []models.EmployerSubscription
	for _, sub := range f.subs {
		if sub.AutoRenew && (inWindow(sub.UnlimitedPostingEndDate) || inWindow(sub.NetworkAccessEndDate)) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountActiveJobs(employerProfileID uint, since time.Time, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	graceCutoff := now.Add(-ExpiredJobGrace)
	var count int64
	for _, job := range f.jobs {
		if job.EmployerProfileID != employerProfileID {
			continue
		}
		if job.CreatedAt.Before(since) {
			continue
		}
		if job.Status != models.JobStatusActive && job.Status != models.JobStatusFilled {
			continue
		}
		effective := job.CreatedAt
		if job.ExpiresAt != nil {
			effective = *job.ExpiresAt
		}
		if effective.Before(graceCutoff) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeRepo) GetEmployerProfile(employerProfileID uint) (*models.EmployerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getProfileErr != nil {
		return nil, f.getProfileErr
	}
	profile, ok := f.profiles[employerProfileID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *profile
	return &copied, nil
}

// CreateBillingRecordIfNew mirrors the unique index on the session id: the
// second insert for the same session is silently skipped.
func (f *fakeRepo) CreateBillingRecordIfNew(rec *models.BillingRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createBillingErr != nil {
		return false, f.createBillingErr
	}
	if rec.StripeSessionID != nil {
		if f.sessions[*rec.StripeSessionID] {
			return false, nil
		}
		f.sessions[*rec.StripeSessionID] = true
	}
	f.nextBillingID++
	rec.ID = f.nextBillingID
	rec.CreatedAt = time.Now()
	f.billing = append(f.billing, rec)
	return true, nil
}

func (f *fakeRepo) CreateBillingRecord(rec *models.BillingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createBillingErr != nil {
		return f.createBillingErr
	}
	f.nextBillingID++
	rec.ID = f.nextBillingID
	rec.CreatedAt = time.Now()
	f.billing = append(f.billing, rec)
	return nil
}

func (f *fakeRepo) UpdateBillingRecordStatus(stripeSessionID string, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	now := time.Now()
	for _, rec := range f.billing {
		if rec.StripeSessionID != nil && *rec.StripeSessionID == stripeSessionID {
			rec.Status = status
			rec.ProcessedAt = &now
		}
	}
	return nil
}

func (f *fakeRepo) RetryFailedBillingRecord(stripeSessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateStatusErr != nil {
		return false, f.updateStatusErr
	}
	for _, rec := range f.billing {
		if rec.StripeSessionID != nil && *rec.StripeSessionID == stripeSessionID && rec.Status == models.BillingStatusFailed {
			rec.Status = models.BillingStatusPending
			rec.ProcessedAt = nil
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) sub(employerProfileID uint) *models.EmployerSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[employerProfileID]
}

func (f *fakeRepo) billingRecords() []*models.BillingRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.BillingRecord, len(f.billing))
	copy(out, f.billing)
	return out
}

// channelMailer collects notifications on a buffered channel so tests can wait
// for the async send instead of sleeping.
func channelMailer(ch chan<- string) Mailer {
	return func(to, subject, body string) error {
		ch <- fmt.Sprintf("%s|%s", to, subject)
		return nil
	}
}
