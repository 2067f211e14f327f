package subscription

import "errors"

var (
	// ErrSubscriptionNotFound marks a missing subscription row where one is
	// required for the operation.
	ErrSubscriptionNotFound = errors.New("subscription: no subscription record for employer")

	// ErrProfileNotFound marks a missing employer profile.
	ErrProfileNotFound = errors.New("subscription: employer profile not found")

	// ErrNoPostingCapacity is raised when a posting is consumed with no
	// credits left and no unlimited-posting entitlement active.
	ErrNoPostingCapacity = errors.New("subscription: no job credits and no unlimited posting entitlement")

	// ErrUnknownPlan marks a subscription type with no catalog entry.
	ErrUnknownPlan = errors.New("subscription: unknown plan type")

	// ErrPlanNotPurchasable rejects checkout on zero-price plans.
	ErrPlanNotPurchasable = errors.New("subscription: plan is not purchasable")

	// ErrNotRenewable rejects auto-renewal of credit-based plans; credit
	// packs are one-time purchases.
	ErrNotRenewable = errors.New("subscription: credit-based plans cannot renew")

	// ErrAutoRenewDisabled rejects renewal when the employer has cancelled.
	ErrAutoRenewDisabled = errors.New("subscription: auto-renew is disabled")
)
