package core

import (
	"context"

	"lekhak-backend-go/internal/models"
)

// QuotaService mediates every "may this extension perform action X" request
// and accounts for approved actions.
type QuotaService interface {
	// Identify runs the quota workflow for one request. The returned decision
	// is always non-nil; a non-nil error means the store failed and the
	// decision is the fail-safe denial.
	Identify(ctx context.Context, req models.IdentifyRequest) (*models.UsageDecision, error)
}

// UsageRecorder records one allowed usage event best-effort. Implementations
// must never let a recording failure surface to the caller.
type UsageRecorder interface {
	Record(ctx context.Context, req models.IdentifyRequest)
}

// PlanService serves the plan catalog for the pricing page.
type PlanService interface {
	ListPlans(ctx context.Context) ([]*models.Plan, error)
}

// WaitlistService appends signups to the waitlist spreadsheet.
type WaitlistService interface {
	Join(ctx context.Context, req models.JoinWaitlistRequest) (*WaitlistResult, error)
}

// PaymentService wraps the payment gateway's order flow.
type PaymentService interface {
	CreateOrder(ctx context.Context, req models.CreatePaymentRequest) (*PaymentOrderResult, error)
	VerifyOrder(ctx context.Context, merchantOrderID string) (map[string]interface{}, error)
	// HandleWebhook verifies and processes one gateway webhook delivery,
	// returning the event type that was handled.
	HandleWebhook(ctx context.Context, authHeader string, body []byte) (string, error)
}
