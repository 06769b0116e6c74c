package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lekhak-backend-go/internal/config"
	"lekhak-backend-go/internal/core"
	"lekhak-backend-go/internal/models"
)

type fakeQuotaService struct {
	decision *models.UsageDecision
	err      error
	calls    int
	lastReq  models.IdentifyRequest
}

func (f *fakeQuotaService) Identify(ctx context.Context, req models.IdentifyRequest) (*models.UsageDecision, error) {
	f.calls++
	f.lastReq = req
	return f.decision, f.err
}

type fakePlanService struct {
	plans []*models.Plan
	err   error
}

func (f *fakePlanService) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	return f.plans, f.err
}

func newTestRouter(quota core.QuotaService, plan core.PlanService, waitlist core.WaitlistService, payment core.PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, &config.Config{ClientURL: "https://lekhakai.com"}, zap.NewNop(), quota, plan, waitlist, payment)
	return router
}

func TestIdentifyReturnsDecision(t *testing.T) {
	svc := &fakeQuotaService{decision: &models.UsageDecision{
		Success:       true,
		CanUse:        true,
		HitsRemaining: 6,
		IsFreeUser:    true,
		Message:       models.MessageUsageAllowed,
	}}
	router := newTestRouter(svc, &fakePlanService{}, nil, nil)

	body := `{"extension_id":"ext-123","action_type":"rewrite","metadata":{"input_length":42}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/identify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "TestAgent/1.0")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var decision models.UsageDecision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decision))
	assert.True(t, decision.Success)
	assert.True(t, decision.CanUse)
	assert.Equal(t, 6, decision.HitsRemaining)

	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "ext-123", svc.lastReq.ExtensionID)
	assert.Equal(t, 42, svc.lastReq.Metadata.InputLength)
	assert.Equal(t, "TestAgent/1.0", svc.lastReq.UserAgent)
	assert.NotEmpty(t, svc.lastReq.IPAddress)
}

func TestIdentifyMissingExtensionID(t *testing.T) {
	svc := &fakeQuotaService{}
	router := newTestRouter(svc, &fakePlanService{}, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/identify", strings.NewReader(`{"action_type":"rewrite"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Missing required field: extension_id", resp.Error)
	assert.Zero(t, svc.calls, "validation failures must not reach the store")
}

func TestIdentifyMissingActionType(t *testing.T) {
	svc := &fakeQuotaService{}
	router := newTestRouter(svc, &fakePlanService{}, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/identify", strings.NewReader(`{"extension_id":"ext-123"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Missing required field: action_type", resp.Error)
	assert.Zero(t, svc.calls)
}

func TestIdentifyWrongMethod(t *testing.T) {
	router := newTestRouter(&fakeQuotaService{}, &fakePlanService{}, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/identify", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Method not allowed", resp.Error)
}

func TestIdentifyStoreFailureAnswers500WithFailSafeBody(t *testing.T) {
	svc := &fakeQuotaService{
		decision: core.FailSafeDecision(),
		err:      errors.New("store unavailable"),
	}
	router := newTestRouter(svc, &fakePlanService{}, nil, nil)

	body := `{"extension_id":"ext-123","action_type":"rewrite"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/identify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var decision models.UsageDecision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decision))
	assert.False(t, decision.Success)
	assert.False(t, decision.CanUse)
	assert.Equal(t, 0, decision.HitsRemaining)
	assert.Equal(t, "Internal server error", decision.Error)
	assert.Equal(t, models.MessageUsageCheckFailed, decision.Message)
}

func TestListPlans(t *testing.T) {
	plan := &fakePlanService{plans: []*models.Plan{
		{ID: "pro", Name: "Pro", HitsLimit: 500, PriceMonthly: 499, Currency: "INR", IsActive: true},
	}}
	router := newTestRouter(&fakeQuotaService{}, plan, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Pro"`)
}

func TestUnconfiguredSurfacesAnswer404(t *testing.T) {
	router := newTestRouter(&fakeQuotaService{}, &fakePlanService{}, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/waitlist", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/payments/create", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthReportsIntegrations(t *testing.T) {
	router := newTestRouter(&fakeQuotaService{}, &fakePlanService{}, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"UP"`)
	assert.Contains(t, w.Body.String(), `"integrations"`)
}
