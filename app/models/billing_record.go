package models

import "time"

// Billing record status strings. Persisted verbatim; PENDING transitions to
// COMPLETED or FAILED and records are never deleted.
const (
	BillingStatusPending   = "PENDING"
	BillingStatusCompleted = "COMPLETED"
	BillingStatusFailed    = "FAILED"
)

// BillingRecord is one ledger entry per purchase or renewal charge.
// StripeSessionID carries a unique index so that at-least-once webhook
// delivery collapses to a single row; auto-renewal charges have no session
// and leave it NULL.
type BillingRecord struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	EmployerProfileID uint       `gorm:"not null;index" json:"employer_profile_id"`
	AmountCents       int64      `gorm:"not null" json:"amount_cents"`
	Description       string     `gorm:"type:varchar(255);not null" json:"description"`
	SubscriptionType  string     `gorm:"type:varchar(32);not null;index" json:"subscription_type"`
	Status            string     `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	StripeSessionID   *string    `gorm:"type:varchar(191);default:null;uniqueIndex:ux_billing_records_session" json:"stripe_session_id,omitempty"`
	ProcessedAt       *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
