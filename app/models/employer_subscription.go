package models

import "time"

// Subscription plan type strings. These values are persisted and must not be
// renamed; historical rows reference them verbatim.
const (
	SubscriptionTypeTrial            = "TRIAL"
	SubscriptionTypeSpotlight        = "SPOTLIGHT"
	SubscriptionTypeBundle           = "BUNDLE"
	SubscriptionTypeUnlimited        = "UNLIMITED"
	SubscriptionTypeNetwork          = "NETWORK"
	SubscriptionTypeNetworkQuarterly = "NETWORK_QUARTERLY"
)

const (
	RenewalPeriodAnnual    = "ANNUAL"
	RenewalPeriodQuarterly = "QUARTERLY"
)

// EmployerSubscription holds the mutable subscription state for one employer
// profile. Exactly one row per profile; created together with the profile and
// never deleted while the account exists.
//
// Time-based entitlements are derived from the *_end_date columns at query
// time. HasNetworkAccess is a write-time cache of NetworkAccessEndDate being
// set; readers that need the truth recompute from the date.
type EmployerSubscription struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	EmployerProfileID       uint       `gorm:"not null;uniqueIndex" json:"employer_profile_id"`
	SubscriptionType        string     `gorm:"type:varchar(32);not null;default:'TRIAL';index" json:"subscription_type"`
	SubscriptionStartDate   time.Time  `gorm:"not null" json:"subscription_start_date"`
	SubscriptionEndDate     *time.Time `gorm:"type:timestamp;default:null" json:"subscription_end_date,omitempty"`
	JobCredits              uint       `gorm:"not null;default:0" json:"job_credits"`
	JobsPostedCount         uint       `gorm:"not null;default:0" json:"jobs_posted_count"`
	JobPostLimit            uint       `gorm:"not null;default:0" json:"job_post_limit"`
	UnlimitedPostingEndDate *time.Time `gorm:"type:timestamp;default:null" json:"unlimited_posting_end_date,omitempty"`
	NetworkAccessEndDate    *time.Time `gorm:"type:timestamp;default:null" json:"network_access_end_date,omitempty"`
	HasNetworkAccess        bool       `gorm:"default:false" json:"has_network_access"`
	AutoRenew               bool       `gorm:"default:false;index:idx_employer_subscriptions_renewal,priority:1" json:"auto_renew"`
	RenewalPeriod           string     `gorm:"type:varchar(16);default:''" json:"renewal_period,omitempty"`
	StripeCustomerID        string     `gorm:"type:varchar(191);default:''" json:"-"`
	StripeSessionID         string     `gorm:"type:varchar(191);default:''" json:"-"`
	CreatedAt               time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
