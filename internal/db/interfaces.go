package db

import (
	"context"

	"lekhak-backend-go/internal/models"
)

// UserRepository defines read access to user records. User creation happens
// inside the quota transaction, never through this interface.
type UserRepository interface {
	// GetByExtensionID returns ErrNotFound when the extension has never been
	// seen. Used only for usage logging, which tolerates "not found".
	GetByExtensionID(ctx context.Context, extensionID string) (*models.User, error)
}

// QuotaRepository owns the atomic check-and-increment primitive. It is the
// single writer path for quota counters.
type QuotaRepository interface {
	// CheckAndIncrement atomically: creates the User and Quota records if the
	// extension ID has never been seen, resolves the applicable limit from
	// the active subscription/plan, resets rolled-over periods, and
	// increments the counter only when usage is below the limit.
	CheckAndIncrement(ctx context.Context, extensionID string) (*models.QuotaCheckResult, error)
}

// UsageLogRepository appends audit records of accounted actions.
type UsageLogRepository interface {
	Create(ctx context.Context, entry *models.UsageLog) (string, error)
}

// PlanRepository reads the plan catalog.
type PlanRepository interface {
	ListActive(ctx context.Context) ([]*models.Plan, error)
	GetByID(ctx context.Context, planID string) (*models.Plan, error)
}

// SubscriptionRepository manages the zero-or-one subscription record per user.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *models.Subscription) error
	GetByExtensionID(ctx context.Context, extensionID string) (*models.Subscription, error)
}

// PaymentRepository tracks payment orders created against the gateway.
type PaymentRepository interface {
	Create(ctx context.Context, order *models.PaymentOrder) error
	GetByMerchantOrderID(ctx context.Context, merchantOrderID string) (*models.PaymentOrder, error)
	UpdateStatus(ctx context.Context, merchantOrderID, status string) error
}
