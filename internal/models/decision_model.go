package models

// Human-readable messages returned with every decision. The extension shows
// these verbatim, so they never carry store-specific error text.
const (
	MessageUsageAllowed        = "Usage allowed"
	MessageDailyLimitReached   = "Daily limit reached. Upgrade to continue."
	MessageMonthlyLimitReached = "Monthly limit reached. Please check your subscription."
	MessageUsageCheckFailed    = "Unable to check usage status. Please try again."
)

// UsageDecision is the outcome of one identify call: whether the action is
// permitted, the resulting quota state, and where to send the user next.
type UsageDecision struct {
	Success            bool   `json:"success"`
	CanUse             bool   `json:"can_use"`
	HitsRemaining      int    `json:"hits_remaining"`
	SubscriptionStatus string `json:"subscription_status,omitempty"`
	PlanName           string `json:"plan_name,omitempty"`
	IsFreeUser         bool   `json:"is_free_user"`
	UpgradeURL         string `json:"upgrade_url,omitempty"`
	Message            string `json:"message"`
	Error              string `json:"error,omitempty"`
}
