package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lekhak-backend-go/internal/models"
)

type fakeQuotaRepo struct {
	result *models.QuotaCheckResult
	err    error
	calls  int
}

func (f *fakeQuotaRepo) CheckAndIncrement(ctx context.Context, extensionID string) (*models.QuotaCheckResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeRecorder struct {
	calls []models.IdentifyRequest
}

func (f *fakeRecorder) Record(ctx context.Context, req models.IdentifyRequest) {
	f.calls = append(f.calls, req)
}

func TestIdentifyAllowedFreeUser(t *testing.T) {
	repo := &fakeQuotaRepo{result: &models.QuotaCheckResult{
		CanUse:             true,
		HitsRemaining:      3,
		IsFreeUser:         true,
		SubscriptionStatus: "free",
		PlanName:           "Free",
	}}
	recorder := &fakeRecorder{}
	svc := NewQuotaService(repo, recorder, "https://lekhakai.com")

	decision, err := svc.Identify(context.Background(), models.IdentifyRequest{
		ExtensionID: "ext-123",
		ActionType:  "rewrite",
	})

	require.NoError(t, err)
	assert.True(t, decision.Success)
	assert.True(t, decision.CanUse)
	assert.Equal(t, 3, decision.HitsRemaining)
	assert.True(t, decision.IsFreeUser)
	assert.Equal(t, models.MessageUsageAllowed, decision.Message)
	assert.Equal(t, "https://lekhakai.com/pricing?extension_id=ext-123&upgrade=true", decision.UpgradeURL)
	assert.Len(t, recorder.calls, 1)
}

func TestIdentifyDeniedFreeUser(t *testing.T) {
	repo := &fakeQuotaRepo{result: &models.QuotaCheckResult{
		CanUse:             false,
		HitsRemaining:      0,
		IsFreeUser:         true,
		SubscriptionStatus: "free",
		PlanName:           "Free",
	}}
	recorder := &fakeRecorder{}
	svc := NewQuotaService(repo, recorder, "https://lekhakai.com")

	decision, err := svc.Identify(context.Background(), models.IdentifyRequest{
		ExtensionID: "ext-123",
		ActionType:  "rewrite",
	})

	require.NoError(t, err)
	assert.True(t, decision.Success)
	assert.False(t, decision.CanUse)
	assert.Equal(t, models.MessageDailyLimitReached, decision.Message)
	assert.Contains(t, decision.UpgradeURL, "upgrade=true")
	assert.Empty(t, recorder.calls, "denied requests must not be recorded")
}

func TestIdentifyDeniedPaidUser(t *testing.T) {
	repo := &fakeQuotaRepo{result: &models.QuotaCheckResult{
		CanUse:             false,
		HitsRemaining:      0,
		IsFreeUser:         false,
		SubscriptionStatus: "active",
		PlanName:           "Pro",
	}}
	svc := NewQuotaService(repo, &fakeRecorder{}, "https://lekhakai.com")

	decision, err := svc.Identify(context.Background(), models.IdentifyRequest{
		ExtensionID: "ext-456",
		ActionType:  "summarize",
	})

	require.NoError(t, err)
	assert.Equal(t, models.MessageMonthlyLimitReached, decision.Message)
	assert.Contains(t, decision.UpgradeURL, "manage=true")
	assert.Equal(t, "Pro", decision.PlanName)
}

func TestIdentifyUnlimitedPlan(t *testing.T) {
	repo := &fakeQuotaRepo{result: &models.QuotaCheckResult{
		CanUse:             true,
		HitsRemaining:      models.UnlimitedHits,
		IsFreeUser:         false,
		SubscriptionStatus: "active",
		PlanName:           "Unlimited",
	}}
	svc := NewQuotaService(repo, &fakeRecorder{}, "https://lekhakai.com")

	decision, err := svc.Identify(context.Background(), models.IdentifyRequest{
		ExtensionID: "ext-789",
		ActionType:  "rewrite",
	})

	require.NoError(t, err)
	assert.True(t, decision.CanUse)
	assert.Equal(t, models.UnlimitedHits, decision.HitsRemaining)
}

func TestIdentifyStoreFailureFailsSafe(t *testing.T) {
	repo := &fakeQuotaRepo{err: errors.New("deadline exceeded")}
	recorder := &fakeRecorder{}
	svc := NewQuotaService(repo, recorder, "https://lekhakai.com")

	decision, err := svc.Identify(context.Background(), models.IdentifyRequest{
		ExtensionID: "ext-123",
		ActionType:  "rewrite",
	})

	require.Error(t, err)
	require.NotNil(t, decision)
	assert.False(t, decision.Success)
	assert.False(t, decision.CanUse)
	assert.Equal(t, 0, decision.HitsRemaining)
	assert.Equal(t, "Internal server error", decision.Error)
	assert.Equal(t, models.MessageUsageCheckFailed, decision.Message)
	assert.Empty(t, recorder.calls)
}

func TestIdentifyNilResultDenies(t *testing.T) {
	repo := &fakeQuotaRepo{result: nil}
	svc := NewQuotaService(repo, &fakeRecorder{}, "https://lekhakai.com")

	decision, err := svc.Identify(context.Background(), models.IdentifyRequest{
		ExtensionID: "ext-123",
		ActionType:  "rewrite",
	})

	require.NoError(t, err)
	assert.False(t, decision.CanUse)
	assert.Equal(t, 0, decision.HitsRemaining)
}

func TestUpgradeURLEscapesExtensionID(t *testing.T) {
	repo := &fakeQuotaRepo{result: &models.QuotaCheckResult{
		CanUse: true, HitsRemaining: 1, IsFreeUser: true,
		SubscriptionStatus: "free", PlanName: "Free",
	}}
	svc := NewQuotaService(repo, &fakeRecorder{}, "https://lekhakai.com")

	decision, err := svc.Identify(context.Background(), models.IdentifyRequest{
		ExtensionID: "ext with space",
		ActionType:  "rewrite",
	})

	require.NoError(t, err)
	assert.Contains(t, decision.UpgradeURL, "extension_id=ext+with+space")
}
