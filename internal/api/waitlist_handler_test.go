package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lekhak-backend-go/internal/core"
	"lekhak-backend-go/internal/models"
)

type fakeWaitlistService struct {
	result *core.WaitlistResult
	err    error
}

func (f *fakeWaitlistService) Join(ctx context.Context, req models.JoinWaitlistRequest) (*core.WaitlistResult, error) {
	return f.result, f.err
}

func TestWaitlistJoinSuccess(t *testing.T) {
	svc := &fakeWaitlistService{result: &core.WaitlistResult{
		Email:     "new@example.com",
		Name:      "New Person",
		RowsAdded: 1,
	}}
	router := newTestRouter(&fakeQuotaService{}, &fakePlanService{}, svc, nil)

	body := `{"email":"new@example.com","name":"New Person"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/waitlist", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Successfully joined the waitlist", resp.Message)
}

func TestWaitlistJoinDuplicate(t *testing.T) {
	svc := &fakeWaitlistService{err: core.ErrDuplicateEmail}
	router := newTestRouter(&fakeQuotaService{}, &fakePlanService{}, svc, nil)

	body := `{"email":"dup@example.com","name":"Dup"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/waitlist", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWaitlistJoinMissingFields(t *testing.T) {
	router := newTestRouter(&fakeQuotaService{}, &fakePlanService{}, &fakeWaitlistService{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/waitlist", strings.NewReader(`{"name":"No Email"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing required field: email")
}
