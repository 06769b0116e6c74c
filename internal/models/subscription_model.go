package models

import "time"

// Subscription statuses as stored in user_subscriptions.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// Subscription is the zero-or-one active subscription record per user.
// It decides which limit applies: the plan's monthly limit while active and
// inside the current period, otherwise the fixed free-tier daily limit.
type Subscription struct {
	UserID             string    `json:"user_id" firestore:"userId"`
	PlanID             string    `json:"plan_id" firestore:"planId"`
	PlanName           string    `json:"plan_name" firestore:"planName"`
	Status             string    `json:"status" firestore:"status"`
	BillingCycle       string    `json:"billing_cycle" firestore:"billingCycle"`
	GatewayOrderID     string    `json:"gateway_order_id,omitempty" firestore:"gatewayOrderId,omitempty"`
	CurrentPeriodStart time.Time `json:"current_period_start" firestore:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time `json:"current_period_end" firestore:"currentPeriodEnd"`
	CreatedAt          time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt          time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ActiveAt reports whether the subscription entitles the user to its plan's
// monthly limit at the given instant.
func (s *Subscription) ActiveAt(now time.Time) bool {
	if s == nil {
		return false
	}
	return s.Status == SubscriptionStatusActive && now.Before(s.CurrentPeriodEnd)
}

// Plan is a catalog entry (Free, Pro, Unlimited). Read-only from the quota
// workflow's perspective.
type Plan struct {
	ID           string  `json:"id" firestore:"-"`
	Name         string  `json:"name" firestore:"name"`
	HitsLimit    int     `json:"hits_limit" firestore:"hitsLimit"` // UnlimitedHits means unlimited
	PriceMonthly float64 `json:"price_monthly" firestore:"priceMonthly"`
	Currency     string  `json:"currency" firestore:"currency"`
	IsActive     bool    `json:"is_active" firestore:"isActive"`
}
