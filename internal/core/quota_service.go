package core

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"lekhak-backend-go/internal/db"
	"lekhak-backend-go/internal/models"
)

// quotaService implements the QuotaService interface. It is stateless per
// call: all counters and periods live in the store and are mutated only
// through the atomic check-and-increment primitive.
type quotaService struct {
	quotaRepo db.QuotaRepository
	recorder  UsageRecorder
	clientURL string
}

// NewQuotaService creates a new QuotaService instance. clientURL is the
// marketing-site origin used to build upgrade/manage URLs.
func NewQuotaService(quotaRepo db.QuotaRepository, recorder UsageRecorder, clientURL string) QuotaService {
	return &quotaService{
		quotaRepo: quotaRepo,
		recorder:  recorder,
		clientURL: clientURL,
	}
}

// Identify runs the quota workflow: atomic check-and-increment, best-effort
// usage recording when allowed, then the decision with its upgrade hint and
// message. This is the single wrapping layer that converts any store failure
// into the fail-safe denial, so no new code path can accidentally over-grant.
func (s *quotaService) Identify(ctx context.Context, req models.IdentifyRequest) (*models.UsageDecision, error) {
	result, err := s.quotaRepo.CheckAndIncrement(ctx, req.ExtensionID)
	if err != nil {
		log.Printf("Quota check failed for extension '%s': %v", req.ExtensionID, err)
		return FailSafeDecision(), fmt.Errorf("quota check failed: %w", err)
	}
	if result == nil {
		// The store returned no row; deny rather than guess.
		result = models.SafeDefaultQuotaResult()
	}

	// The decision is authoritative from here on. Recording is a detached
	// side effect: nothing it does can revoke or alter the decision.
	if result.CanUse && s.recorder != nil {
		s.recorder.Record(ctx, req)
	}

	return &models.UsageDecision{
		Success:            true,
		CanUse:             result.CanUse,
		HitsRemaining:      result.HitsRemaining,
		SubscriptionStatus: result.SubscriptionStatus,
		PlanName:           result.PlanName,
		IsFreeUser:         result.IsFreeUser,
		UpgradeURL:         s.upgradeURL(req.ExtensionID, result.IsFreeUser),
		Message:            decisionMessage(result),
	}, nil
}

// upgradeURL points free-tier users at the upgrade flow and paid users at
// plan management, both parameterized by extension ID.
func (s *quotaService) upgradeURL(extensionID string, isFreeUser bool) string {
	action := "manage"
	if isFreeUser {
		action = "upgrade"
	}
	return fmt.Sprintf("%s/pricing?extension_id=%s&%s=true", s.clientURL, url.QueryEscape(extensionID), action)
}

// decisionMessage selects the fixed wording for the decision.
func decisionMessage(result *models.QuotaCheckResult) string {
	if result.CanUse {
		return models.MessageUsageAllowed
	}
	if result.IsFreeUser {
		return models.MessageDailyLimitReached
	}
	return models.MessageMonthlyLimitReached
}

// FailSafeDecision is the deny-on-uncertainty response returned whenever the
// store's primitive fails, independent of the underlying cause.
func FailSafeDecision() *models.UsageDecision {
	return &models.UsageDecision{
		Success:       false,
		CanUse:        false,
		HitsRemaining: 0,
		Error:         "Internal server error",
		Message:       models.MessageUsageCheckFailed,
	}
}
