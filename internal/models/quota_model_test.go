package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameUTCDay(t *testing.T) {
	base := time.Date(2026, 3, 9, 23, 59, 59, 0, time.UTC)

	assert.True(t, SameUTCDay(base, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.False(t, SameUTCDay(base, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))

	// Wall-clock day boundaries are evaluated in UTC regardless of the
	// values' locations.
	ist := time.FixedZone("IST", 5*3600+1800)
	assert.True(t, SameUTCDay(base, time.Date(2026, 3, 10, 5, 0, 0, 0, ist)))
}

func TestRemainingHits(t *testing.T) {
	assert.Equal(t, 4, RemainingHits(7, 3))
	assert.Equal(t, 0, RemainingHits(7, 7))
	assert.Equal(t, 0, RemainingHits(7, 9), "overshoot floors at zero")
	assert.Equal(t, UnlimitedHits, RemainingHits(UnlimitedHits, 100000))
}

func TestSafeDefaultQuotaResult(t *testing.T) {
	result := SafeDefaultQuotaResult()

	assert.False(t, result.CanUse)
	assert.Equal(t, 0, result.HitsRemaining)
	assert.True(t, result.IsFreeUser)
	assert.Equal(t, "free", result.SubscriptionStatus)
	assert.Equal(t, "Free", result.PlanName)
}

func TestSubscriptionActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	var nilSub *Subscription
	assert.False(t, nilSub.ActiveAt(now))

	active := &Subscription{Status: SubscriptionStatusActive, CurrentPeriodEnd: now.Add(time.Hour)}
	assert.True(t, active.ActiveAt(now))

	lapsed := &Subscription{Status: SubscriptionStatusActive, CurrentPeriodEnd: now}
	assert.False(t, lapsed.ActiveAt(now), "period end is exclusive")

	cancelled := &Subscription{Status: SubscriptionStatusCancelled, CurrentPeriodEnd: now.Add(time.Hour)}
	assert.False(t, cancelled.ActiveAt(now))
}
