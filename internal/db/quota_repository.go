package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lekhak-backend-go/internal/models"
)

// firestoreQuotaRepository implements QuotaRepository using a single Firestore
// transaction per check. Firestore serializes concurrent transactions touching
// the same quota document, so two simultaneous checks for one extension ID can
// never both consume the last remaining hit.
type firestoreQuotaRepository struct {
	client         *firestore.Client
	freeDailyLimit int
}

// NewFirestoreQuotaRepository creates a new instance of firestoreQuotaRepository.
// freeDailyLimit is the fixed free-tier daily allowance.
func NewFirestoreQuotaRepository(client *firestore.Client, freeDailyLimit int) QuotaRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for QuotaRepository.")
	}
	if freeDailyLimit <= 0 {
		log.Fatalf("Invalid free daily limit for QuotaRepository: %d", freeDailyLimit)
	}
	return &firestoreQuotaRepository{client: client, freeDailyLimit: freeDailyLimit}
}

// CheckAndIncrement implements the atomic check-and-increment primitive.
// Within one transaction it: lazily creates the User and Quota documents,
// resolves the applicable limit from the active subscription's plan (monthly)
// or the free-tier daily limit, resets the counter when the relevant period
// has rolled over (UTC midnight for the free tier, subscription period start
// for the paid tier), and increments only when usage is below the limit.
func (r *firestoreQuotaRepository) CheckAndIncrement(ctx context.Context, extensionID string) (*models.QuotaCheckResult, error) {
	if extensionID == "" {
		return nil, errors.New("extensionID cannot be empty for CheckAndIncrement operation")
	}

	userRef := r.client.Collection(usersCollection).Doc(extensionID)
	quotaRef := r.client.Collection(quotasCollection).Doc(extensionID)
	subRef := r.client.Collection(subscriptionsCollection).Doc(extensionID)

	var result *models.QuotaCheckResult

	err := r.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		now := time.Now().UTC()

		// All reads must precede all writes inside a Firestore transaction.
		userSnap, err := tx.Get(userRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return fmt.Errorf("failed to read user: %w", err)
		}
		quotaSnap, err := tx.Get(quotaRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return fmt.Errorf("failed to read quota: %w", err)
		}
		subSnap, err := tx.Get(subRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return fmt.Errorf("failed to read subscription: %w", err)
		}

		var sub *models.Subscription
		if subSnap != nil && subSnap.Exists() {
			var s models.Subscription
			if err := subSnap.DataTo(&s); err != nil {
				return fmt.Errorf("failed to decode subscription: %w", err)
			}
			sub = &s
		}

		var plan *models.Plan
		if sub.ActiveAt(now) && sub.PlanID != "" {
			planSnap, err := tx.Get(r.client.Collection(plansCollection).Doc(sub.PlanID))
			if err != nil && status.Code(err) != codes.NotFound {
				return fmt.Errorf("failed to read plan: %w", err)
			}
			if planSnap != nil && planSnap.Exists() {
				var p models.Plan
				if err := planSnap.DataTo(&p); err != nil {
					return fmt.Errorf("failed to decode plan: %w", err)
				}
				p.ID = planSnap.Ref.ID
				plan = &p
			}
		}

		// Lazily create the user on first sight of this extension ID.
		var user models.User
		newUser := !(userSnap != nil && userSnap.Exists())
		if newUser {
			user = models.User{
				ID:        uuid.NewString(),
				CreatedAt: now,
				UpdatedAt: now,
			}
		} else if err := userSnap.DataTo(&user); err != nil {
			return fmt.Errorf("failed to decode user: %w", err)
		}

		var quota models.Quota
		if quotaSnap != nil && quotaSnap.Exists() {
			if err := quotaSnap.DataTo(&quota); err != nil {
				return fmt.Errorf("failed to decode quota: %w", err)
			}
		} else {
			quota = models.Quota{
				UserID:           user.ID,
				DailyLimit:       r.freeDailyLimit,
				LastDailyReset:   now,
				LastMonthlyReset: now,
			}
		}

		if plan != nil {
			result = r.applyPaidCheck(&quota, sub, plan, now)
		} else {
			result = r.applyFreeCheck(&quota, sub, now)
		}
		quota.UpdatedAt = now

		// Writes: quota state always, user only on first sight.
		if newUser {
			if err := tx.Create(userRef, &user); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
		}
		if err := tx.Set(quotaRef, &quota); err != nil {
			return fmt.Errorf("failed to write quota: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("check-and-increment transaction failed for extension '%s': %w", extensionID, err)
	}
	return result, nil
}

// applyPaidCheck evaluates the monthly counter against the plan limit,
// resetting it when the subscription's current period started after the last
// reset. A limit of UnlimitedHits always allows and still counts the hit.
func (r *firestoreQuotaRepository) applyPaidCheck(quota *models.Quota, sub *models.Subscription, plan *models.Plan, now time.Time) *models.QuotaCheckResult {
	if quota.LastMonthlyReset.Before(sub.CurrentPeriodStart) {
		quota.MonthlyUsed = 0
		quota.LastMonthlyReset = sub.CurrentPeriodStart
	}
	quota.MonthlyLimit = plan.HitsLimit

	canUse := plan.HitsLimit == models.UnlimitedHits || quota.MonthlyUsed < plan.HitsLimit
	if canUse {
		quota.MonthlyUsed++
	}
	return &models.QuotaCheckResult{
		CanUse:             canUse,
		HitsRemaining:      models.RemainingHits(plan.HitsLimit, quota.MonthlyUsed),
		IsFreeUser:         false,
		SubscriptionStatus: sub.Status,
		PlanName:           plan.Name,
	}
}

// applyFreeCheck evaluates the daily counter against the free-tier limit,
// resetting it at UTC midnight. Users whose subscription lapsed fall back
// here; their reported status reflects the lapsed subscription.
func (r *firestoreQuotaRepository) applyFreeCheck(quota *models.Quota, sub *models.Subscription, now time.Time) *models.QuotaCheckResult {
	if !models.SameUTCDay(quota.LastDailyReset, now) {
		quota.DailyUsed = 0
		quota.LastDailyReset = now
	}
	quota.DailyLimit = r.freeDailyLimit

	canUse := quota.DailyUsed < r.freeDailyLimit
	if canUse {
		quota.DailyUsed++
	}

	subscriptionStatus := "free"
	if sub != nil {
		subscriptionStatus = sub.Status
		if sub.Status == models.SubscriptionStatusActive && !now.Before(sub.CurrentPeriodEnd) {
			subscriptionStatus = models.SubscriptionStatusExpired
		}
	}
	return &models.QuotaCheckResult{
		CanUse:             canUse,
		HitsRemaining:      models.RemainingHits(r.freeDailyLimit, quota.DailyUsed),
		IsFreeUser:         true,
		SubscriptionStatus: subscriptionStatus,
		PlanName:           "Free",
	}
}
