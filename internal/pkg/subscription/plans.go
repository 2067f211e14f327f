package subscription

import (
	"time"

	"github.com/hireprivate/staffboard/app/models"
)

const (
	// TrialDuration is the length of the free trial measured from the
	// subscription start date.
	TrialDuration = 30 * 24 * time.Hour

	// RenewalWindow is the pre-expiry lookahead within which auto-renewing
	// subscriptions are renewed, so entitlement never lapses before the daily
	// renewal pass runs.
	RenewalWindow = 3 * 24 * time.Hour

	// ExpiredJobGrace keeps freshly-expired listings counting toward usage for
	// the current billing period.
	ExpiredJobGrace = 60 * 24 * time.Hour

	// AgencyTrialCredits is the free posting capacity granted to agencies at
	// trial initialization. Employers start with zero.
	AgencyTrialCredits = 5
)

// Plan is one entry of the static plan catalog. Prices and durations here are
// the single source of truth for new purchases; previously stored
// subscription rows keep whatever was written at purchase time.
type Plan struct {
	Type                string
	Name                string
	PriceCents          int64
	CreditBased         bool
	CreditGrant         uint
	DurationDays        int
	HasUnlimitedPosting bool
	HasNetworkAccess    bool
	AutoRenew           bool
	RenewalPeriod       string
}

// Predefined subscription plans.
var (
	PlanTrial = Plan{
		Type:         models.SubscriptionTypeTrial,
		Name:         "Free Trial",
		PriceCents:   0,
		DurationDays: 30,
	}

	PlanSpotlight = Plan{
		Type:        models.SubscriptionTypeSpotlight,
		Name:        "Spotlight Posting",
		PriceCents:  25000, // $250
		CreditBased: true,
		CreditGrant: 1,
	}

	PlanBundle = Plan{
		Type:        models.SubscriptionTypeBundle,
		Name:        "Posting Bundle",
		PriceCents:  60000, // $600
		CreditBased: true,
		CreditGrant: 3,
	}

	PlanUnlimited = Plan{
		Type:                models.SubscriptionTypeUnlimited,
		Name:                "Unlimited Annual",
		PriceCents:          250000, // $2,500
		DurationDays:        365,
		HasUnlimitedPosting: true,
		AutoRenew:           true,
		RenewalPeriod:       models.RenewalPeriodAnnual,
	}

	PlanNetwork = Plan{
		Type:                models.SubscriptionTypeNetwork,
		Name:                "Network Annual",
		PriceCents:          500000, // $5,000
		DurationDays:        365,
		HasUnlimitedPosting: true,
		HasNetworkAccess:    true,
		AutoRenew:           true,
		RenewalPeriod:       models.RenewalPeriodAnnual,
	}

	PlanNetworkQuarterly = Plan{
		Type:                models.SubscriptionTypeNetworkQuarterly,
		Name:                "Network Quarterly",
		PriceCents:          150000, // $1,500
		DurationDays:        90,
		HasUnlimitedPosting: true,
		HasNetworkAccess:    true,
		AutoRenew:           true,
		RenewalPeriod:       models.RenewalPeriodQuarterly,
	}

	// AllPlans is the ordered list of available plans.
	AllPlans = []Plan{PlanTrial, PlanSpotlight, PlanBundle, PlanUnlimited, PlanNetwork, PlanNetworkQuarterly}
)

// PlanByType looks up a plan by its subscription type string. Returns nil if
// not found.
func PlanByType(subscriptionType string) *Plan {
	for i := range AllPlans {
		if AllPlans[i].Type == subscriptionType {
			p := AllPlans[i]
			return &p
		}
	}
	return nil
}

// Duration returns the plan term length for time-based plans.
func (p Plan) Duration() time.Duration {
	return time.Duration(p.DurationDays) * 24 * time.Hour
}

// Purchasable reports whether the plan can go through gateway checkout.
// Free plans cannot be bought.
func (p Plan) Purchasable() bool {
	return p.PriceCents > 0
}
