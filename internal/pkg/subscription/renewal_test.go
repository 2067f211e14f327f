package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireprivate/staffboard/app/models"
)

func TestRenewSubscriptionStartsFreshTerm(t *testing.T) {
	oldEnd := time.Now().Add(2 * 24 * time.Hour)
	repo := newFakeRepo()
	repo.addProfile(1, "Acme Staffing", "billing@acme.test")
	repo.addSubscription(models.EmployerSubscription{
		EmployerProfileID:       1,
		SubscriptionType:        models.SubscriptionTypeNetwork,
		SubscriptionStartDate:   time.Now().Add(-363 * 24 * time.Hour),
		SubscriptionEndDate:     &oldEnd,
		UnlimitedPostingEndDate: &oldEnd,
		NetworkAccessEndDate:    &oldEnd,
		HasNetworkAccess:        true,
		AutoRenew:               true,
		RenewalPeriod:           models.RenewalPeriodAnnual,
	})
	svc, _ := newTestService(repo)

	require.NoError(t, svc.RenewSubscription(context.Background(), 1))

	sub := repo.sub(1)
	require.NotNil(t, sub.SubscriptionEndDate)
	// The new term runs a full year from now, not from the old end date.
	assert.WithinDuration(t, time.Now().Add(365*24*time.Hour), *sub.SubscriptionEndDate, 5*time.Second)
	assert.WithinDuration(t, time.Now(), sub.SubscriptionStartDate, 5*time.Second)
	require.NotNil(t, sub.NetworkAccessEndDate)
	assert.Equal(t, *sub.SubscriptionEndDate, *sub.NetworkAccessEndDate)
	assert.True(t, sub.AutoRenew, "renewal must not change the auto-renew flag")

	records := repo.billingRecords()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, models.BillingStatusCompleted, rec.Status)
	assert.Equal(t, int64(500000), rec.AmountCents)
	assert.Nil(t, rec.StripeSessionID, "auto-renewal charges carry no checkout session")
}

func TestRenewSubscriptionAutoRenewDisabled(t *testing.T) {
	repo := newFakeRepo()
	repo.addSubscription(models.EmployerSubscription{
		EmployerProfileID:     1,
		SubscriptionType:      models.SubscriptionTypeNetwork,
		SubscriptionStartDate: time.Now(),
		SubscriptionEndDate:   timeRef(time.Now().Add(24 * time.Hour)),
		AutoRenew:             false,
	})
	svc, _ := newTestService(repo)

	err := svc.RenewSubscription(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAutoRenewDisabled)
	assert.Empty(t, repo.billingRecords())
}

func TestRenewSubscriptionCreditPlanNotRenewable(t *testing.T) {
	repo := newFakeRepo()
	repo.addSubscription(models.EmployerSubscription{
		EmployerProfileID:     1,
		SubscriptionType:      models.SubscriptionTypeBundle,
		SubscriptionStartDate: time.Now(),
		AutoRenew:             true,
	})
	svc, _ := newTestService(repo)

	err := svc.RenewSubscription(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotRenewable)
}

func TestRenewSubscriptionUnknownPlan(t *testing.T) {
	repo := newFakeRepo()
	repo.addSubscription(models.EmployerSubscription{
		EmployerProfileID:     1,
		SubscriptionType:      "LEGACY_GOLD",
		SubscriptionStartDate: time.Now(),
		AutoRenew:             true,
	})
	svc, _ := newTestService(repo)

	err := svc.RenewSubscription(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestRenewSubscriptionMissing(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	err := svc.RenewSubscription(context.Background(), 404)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestProcessSubscriptionRenewals(t *testing.T) {
	now := time.Now()
	repo := newFakeRepo()
	repo.addProfile(1, "Acme Staffing", "billing@acme.test")
	repo.addProfile(2, "Brightside Care", "")
	repo.addProfile(3, "Castle Help", "")

	// Expires inside the lookahead window: renewed.
	repo.addSubscription(models.EmployerSubscription{
		EmployerProfileID:       1,
		SubscriptionType:        models.SubscriptionTypeNetwork,
		SubscriptionStartDate:   now.Add(-363 * 24 * time.Hour),
		SubscriptionEndDate:     timeRef(now.Add(2 * 24 * time.Hour)),
		UnlimitedPostingEndDate: timeRef(now.Add(2 * 24 * time.Hour)),
		NetworkAccessEndDate:    timeRef(now.Add(2 * 24 * time.Hour)),
		AutoRenew:               true,
	})
	// Plan no longer in the catalog: counted as failed, pass continues.
	repo.addSubscription(models.EmployerSubscription{
		EmployerProfileID:       2,
		SubscriptionType:        "LEGACY_GOLD",
		SubscriptionStartDate:   now.Add(-100 * 24 * time.Hour),
		UnlimitedPostingEndDate: timeRef(now.Add(24 * time.Hour)),
		AutoRenew:               true,
	})
	// Expires far outside the window: untouched.
	repo.addSubscription(models.EmployerSubscription{
		EmployerProfileID:       3,
		SubscriptionType:        models.SubscriptionTypeUnlimited,
		SubscriptionStartDate:   now.Add(-10 * 24 * time.Hour),
		SubscriptionEndDate:     timeRef(now.Add(300 * 24 * time.Hour)),
		UnlimitedPostingEndDate: timeRef(now.Add(300 * 24 * time.Hour)),
		AutoRenew:               true,
	})
	svc, _ := newTestService(repo)

	report, err := svc.ProcessSubscriptionRenewals(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Renewed)
	assert.Equal(t, 1, report.Failed)

	renewed := repo.sub(1)
	require.NotNil(t, renewed.SubscriptionEndDate)
	assert.WithinDuration(t, now.Add(365*24*time.Hour), *renewed.SubscriptionEndDate, 5*time.Second)

	untouched := repo.sub(3)
	assert.WithinDuration(t, now.Add(300*24*time.Hour), *untouched.SubscriptionEndDate, 5*time.Second)
}

func TestProcessSubscriptionRenewalsSkipsCancelled(t *testing.T) {
	now := time.Now()
	repo := newFakeRepo()
	repo.addSubscription(models.EmployerSubscription{
		EmployerProfileID:       1,
		SubscriptionType:        models.SubscriptionTypeNetwork,
		SubscriptionStartDate:   now.Add(-363 * 24 * time.Hour),
		SubscriptionEndDate:     timeRef(now.Add(24 * time.Hour)),
		UnlimitedPostingEndDate: timeRef(now.Add(24 * time.Hour)),
		NetworkAccessEndDate:    timeRef(now.Add(24 * time.Hour)),
		AutoRenew:               false,
	})
	svc, _ := newTestService(repo)

	report, err := svc.ProcessSubscriptionRenewals(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Renewed)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, repo.billingRecords())
}

func TestProcessSubscriptionRenewalsListError(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("connection reset")
	svc, _ := newTestService(repo)

	_, err := svc.ProcessSubscriptionRenewals(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}
