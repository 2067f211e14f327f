package subscription

import (
	"testing"
	"time"

	"github.com/hireprivate/staffboard/app/models"
)

func TestPlanByType(t *testing.T) {
	tests := []struct {
		in          string
		found       bool
		creditBased bool
	}{
		{in: "TRIAL", found: true},
		{in: "SPOTLIGHT", found: true, creditBased: true},
		{in: "BUNDLE", found: true, creditBased: true},
		{in: "UNLIMITED", found: true},
		{in: "NETWORK", found: true},
		{in: "NETWORK_QUARTERLY", found: true},
		{in: "trial", found: false},
		{in: "PREMIUM", found: false},
		{in: "", found: false},
	}

	for _, tt := range tests {
		plan := PlanByType(tt.in)
		if (plan != nil) != tt.found {
			t.Fatalf("PlanByType(%q) found = %v, want %v", tt.in, plan != nil, tt.found)
		}
		if plan != nil && plan.CreditBased != tt.creditBased {
			t.Fatalf("PlanByType(%q).CreditBased = %v, want %v", tt.in, plan.CreditBased, tt.creditBased)
		}
	}
}

func TestPlanByTypeReturnsCopy(t *testing.T) {
	plan := PlanByType(models.SubscriptionTypeBundle)
	plan.CreditGrant = 99

	if again := PlanByType(models.SubscriptionTypeBundle); again.CreditGrant != 3 {
		t.Fatalf("catalog entry mutated through returned pointer: CreditGrant = %d", again.CreditGrant)
	}
}

func TestCreditGrants(t *testing.T) {
	if PlanSpotlight.CreditGrant != 1 {
		t.Fatalf("spotlight grant = %d, want 1", PlanSpotlight.CreditGrant)
	}
	if PlanBundle.CreditGrant != 3 {
		t.Fatalf("bundle grant = %d, want 3", PlanBundle.CreditGrant)
	}
}

func TestPlanPrices(t *testing.T) {
	tests := []struct {
		plan Plan
		want int64
	}{
		{PlanTrial, 0},
		{PlanSpotlight, 25000},
		{PlanBundle, 60000},
		{PlanUnlimited, 250000},
		{PlanNetwork, 500000},
		{PlanNetworkQuarterly, 150000},
	}

	for _, tt := range tests {
		if tt.plan.PriceCents != tt.want {
			t.Fatalf("%s price = %d, want %d", tt.plan.Type, tt.plan.PriceCents, tt.want)
		}
	}
}

func TestPlanDurations(t *testing.T) {
	if got := PlanUnlimited.Duration(); got != 365*24*time.Hour {
		t.Fatalf("unlimited duration = %v", got)
	}
	if got := PlanNetwork.Duration(); got != 365*24*time.Hour {
		t.Fatalf("network duration = %v", got)
	}
	if got := PlanNetworkQuarterly.Duration(); got != 90*24*time.Hour {
		t.Fatalf("network quarterly duration = %v", got)
	}
}

func TestNetworkPlansIncludeUnlimitedPosting(t *testing.T) {
	for _, plan := range []Plan{PlanNetwork, PlanNetworkQuarterly} {
		if !plan.HasNetworkAccess {
			t.Fatalf("expected %s to grant network access", plan.Type)
		}
		if !plan.HasUnlimitedPosting {
			t.Fatalf("expected %s to grant unlimited posting", plan.Type)
		}
	}
}

func TestPurchasable(t *testing.T) {
	if PlanTrial.Purchasable() {
		t.Fatalf("trial must not be purchasable")
	}
	for _, plan := range []Plan{PlanSpotlight, PlanBundle, PlanUnlimited, PlanNetwork, PlanNetworkQuarterly} {
		if !plan.Purchasable() {
			t.Fatalf("expected %s to be purchasable", plan.Type)
		}
	}
}

func TestTimeBasedPlansAutoRenew(t *testing.T) {
	tests := []struct {
		plan   Plan
		renew  bool
		period string
	}{
		{PlanTrial, false, ""},
		{PlanSpotlight, false, ""},
		{PlanBundle, false, ""},
		{PlanUnlimited, true, models.RenewalPeriodAnnual},
		{PlanNetwork, true, models.RenewalPeriodAnnual},
		{PlanNetworkQuarterly, true, models.RenewalPeriodQuarterly},
	}

	for _, tt := range tests {
		if tt.plan.AutoRenew != tt.renew {
			t.Fatalf("%s AutoRenew = %v, want %v", tt.plan.Type, tt.plan.AutoRenew, tt.renew)
		}
		if tt.plan.RenewalPeriod != tt.period {
			t.Fatalf("%s RenewalPeriod = %q, want %q", tt.plan.Type, tt.plan.RenewalPeriod, tt.period)
		}
	}
}
