package models

import "time"

// UnlimitedHits is the sentinel limit value meaning "no cap".
const UnlimitedHits = -1

// Quota is the per-user usage counter document. Exactly one exists per user
// after first use. It is only ever written from inside the store's
// check-and-increment transaction; no other code path mutates the counters.
type Quota struct {
	UserID           string    `json:"user_id" firestore:"userId"`
	DailyLimit       int       `json:"daily_limit" firestore:"dailyLimit"`
	MonthlyLimit     int       `json:"monthly_limit" firestore:"monthlyLimit"`
	DailyUsed        int       `json:"daily_used" firestore:"dailyUsed"`
	MonthlyUsed      int       `json:"monthly_used" firestore:"monthlyUsed"`
	LastDailyReset   time.Time `json:"last_daily_reset" firestore:"lastDailyReset"`
	LastMonthlyReset time.Time `json:"last_monthly_reset" firestore:"lastMonthlyReset"`
	UpdatedAt        time.Time `json:"updated_at" firestore:"updatedAt"`
}

// QuotaCheckResult is what the atomic check-and-increment primitive reports.
type QuotaCheckResult struct {
	CanUse             bool   `json:"can_use"`
	HitsRemaining      int    `json:"hits_remaining"` // UnlimitedHits means unlimited
	IsFreeUser         bool   `json:"is_free_user"`
	SubscriptionStatus string `json:"subscription_status"`
	PlanName           string `json:"plan_name"`
}

// SafeDefaultQuotaResult is substituted when the store returns no row.
// Deny-on-uncertainty: the system must never over-grant because of a
// missing or malformed result.
func SafeDefaultQuotaResult() *QuotaCheckResult {
	return &QuotaCheckResult{
		CanUse:             false,
		HitsRemaining:      0,
		IsFreeUser:         true,
		SubscriptionStatus: "free",
		PlanName:           "Free",
	}
}

// SameUTCDay reports whether both instants fall on the same calendar day in
// UTC. The free-tier daily counter resets at UTC midnight.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// RemainingHits computes hits left after the current increment, preserving
// the unlimited sentinel.
func RemainingHits(limit, used int) int {
	if limit == UnlimitedHits {
		return UnlimitedHits
	}
	remaining := limit - used
	if remaining < 0 {
		return 0
	}
	return remaining
}
