package subscription

import "time"

// SubscriptionInfo is the display-ready summary returned to dashboard and API
// callers.
type SubscriptionInfo struct {
	SubscriptionType      string     `json:"subscription_type"`
	PlanName              string     `json:"plan_name"`
	SubscriptionStartDate time.Time  `json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date,omitempty"`
	JobCredits            uint       `json:"job_credits"`
	JobPostLimit          uint       `json:"job_post_limit"`
	JobsPostedCount       uint       `json:"jobs_posted_count"`
	UnlimitedPosting      bool       `json:"unlimited_posting"`
	NetworkAccess         bool       `json:"network_access"`
}

// SubscriptionStatus extends the summary with renewal state.
type SubscriptionStatus struct {
	SubscriptionInfo
	Active          bool   `json:"active"`
	AutoRenew       bool   `json:"auto_renew"`
	RenewalPeriod   string `json:"renewal_period,omitempty"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

// RenewalReport summarizes one renewal batch run.
type RenewalReport struct {
	Renewed int `json:"renewed"`
	Failed  int `json:"failed"`
}
