package subscription

import (
	"time"

	"github.com/hireprivate/staffboard/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the subscription service.
type Repository interface {
	GetByEmployerProfileID(employerProfileID uint) (*models.EmployerSubscription, error)
	CreateForEmployer(employerProfileID uint) (*models.EmployerSubscription, error)
	ApplyPlanUpdate(employerProfileID uint, fields map[string]interface{}) error
	ApplyCreditGrant(employerProfileID uint, credits uint, stripeCustomerID, stripeSessionID string) error
	ConsumeJobCredit(employerProfileID uint) (bool, error)
	IncrementJobsPosted(employerProfileID uint) error
	ListRenewalCandidates(from, to time.Time) ([]models.EmployerSubscription, error)
	CountActiveJobs(employerProfileID uint, since time.Time, now time.Time) (int64, error)
	GetEmployerProfile(employerProfileID uint) (*models.EmployerProfile, error)
	CreateBillingRecordIfNew(rec *models.BillingRecord) (bool, error)
	CreateBillingRecord(rec *models.BillingRecord) error
	UpdateBillingRecordStatus(stripeSessionID string, status string) error
	RetryFailedBillingRecord(stripeSessionID string) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetByEmployerProfileID(employerProfileID uint) (*models.EmployerSubscription, error) {
	var sub models.EmployerSubscription
	err := r.db.Where("employer_profile_id = ?", employerProfileID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) CreateForEmployer(employerProfileID uint) (*models.EmployerSubscription, error) {
	sub := &models.EmployerSubscription{
		EmployerProfileID:     employerProfileID,
		SubscriptionType:      models.SubscriptionTypeTrial,
		SubscriptionStartDate: time.Now(),
	}
	if err := r.db.Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *gormRepository) ApplyPlanUpdate(employerProfileID uint, fields map[string]interface{}) error {
	return r.db.Model(&models.EmployerSubscription{}).
		Where("employer_profile_id = ?", employerProfileID).
		Updates(fields).Error
}

// ApplyCreditGrant adds purchased credits and records the gateway identifiers
// in one UPDATE. A failed write grants nothing, so a redelivery of the same
// purchase can safely grant once.
func (r *gormRepository) ApplyCreditGrant(employerProfileID uint, credits uint, stripeCustomerID, stripeSessionID string) error {
	fields := map[string]interface{}{
		"job_credits": gorm.Expr("job_credits + ?", credits),
	}
	if stripeCustomerID != "" {
		fields["stripe_customer_id"] = stripeCustomerID
	}
	if stripeSessionID != "" {
		fields["stripe_session_id"] = stripeSessionID
	}
	return r.db.Model(&models.EmployerSubscription{}).
		Where("employer_profile_id = ?", employerProfileID).
		Updates(fields).Error
}

// ConsumeJobCredit decrements job_credits by one in a single conditional
// UPDATE. The guard keeps the counter from going negative when two postings
// race on the last credit; the loser sees zero rows affected.
func (r *gormRepository) ConsumeJobCredit(employerProfileID uint) (bool, error) {
	tx := r.db.Model(&models.EmployerSubscription{}).
		Where("employer_profile_id = ? AND job_credits > 0", employerProfileID).
		UpdateColumn("job_credits", gorm.Expr("job_credits - 1"))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) IncrementJobsPosted(employerProfileID uint) error {
	return r.db.Model(&models.EmployerSubscription{}).
		Where("employer_profile_id = ?", employerProfileID).
		UpdateColumn("jobs_posted_count", gorm.Expr("jobs_posted_count + ?", 1)).Error
}

func (r *gormRepository) ListRenewalCandidates(from, to time.Time) ([]models.EmployerSubscription, error) {
	var subs []models.EmployerSubscription
	err := r.db.
		Where("auto_renew = ?", true).
		Where(
			r.db.Where("unlimited_posting_end_date BETWEEN ? AND ?", from, to).
				Or("network_access_end_date BETWEEN ? AND ?", from, to),
		).
		Find(&subs).Error
	return subs, err
}

// CountActiveJobs counts listings created at/after since that are ACTIVE or
// FILLED and either unexpired or expired within the grace window. Listings
// without an expiry date fall back to their creation time for the window.
func (r *gormRepository) CountActiveJobs(employerProfileID uint, since time.Time, now time.Time) (int64, error) {
	graceCutoff := now.Add(-ExpiredJobGrace)
	var count int64
	err := r.db.Model(&models.Job{}).
		Where("employer_profile_id = ?", employerProfileID).
		Where("created_at >= ?", since).
		Where("status IN ?", []string{models.JobStatusActive, models.JobStatusFilled}).
		Where("COALESCE(expires_at, created_at) >= ?", graceCutoff).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) GetEmployerProfile(employerProfileID uint) (*models.EmployerProfile, error) {
	return models.GetEmployerProfileByID(r.db, employerProfileID)
}

// CreateBillingRecordIfNew inserts a billing record unless one already exists
// for the same stripe session id. Returns whether the insert happened, which
// is the idempotency gate for at-least-once webhook delivery.
func (r *gormRepository) CreateBillingRecordIfNew(rec *models.BillingRecord) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "stripe_session_id"},
		},
		DoNothing: true,
	}).Create(rec)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) CreateBillingRecord(rec *models.BillingRecord) error {
	return r.db.Create(rec).Error
}

func (r *gormRepository) UpdateBillingRecordStatus(stripeSessionID string, status string) error {
	now := time.Now()
	return r.db.Model(&models.BillingRecord{}).
		Where("stripe_session_id = ?", stripeSessionID).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_at": &now,
		}).Error
}

// RetryFailedBillingRecord flips a FAILED record back to PENDING so a webhook
// redelivery can re-apply the purchase. The status guard in the WHERE clause
// keeps concurrent redeliveries from both proceeding; only the one that wins
// the flip retries.
func (r *gormRepository) RetryFailedBillingRecord(stripeSessionID string) (bool, error) {
	tx := r.db.Model(&models.BillingRecord{}).
		Where("stripe_session_id = ? AND status = ?", stripeSessionID, models.BillingStatusFailed).
		Updates(map[string]interface{}{
			"status":       models.BillingStatusPending,
			"processed_at": nil,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
