package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lekhak-backend-go/internal/db"
	"lekhak-backend-go/internal/models"
)

type fakeUserRepo struct {
	user *models.User
	err  error
}

func (f *fakeUserRepo) GetByExtensionID(ctx context.Context, extensionID string) (*models.User, error) {
	return f.user, f.err
}

type fakeUsageLogRepo struct {
	entries []*models.UsageLog
	err     error
}

func (f *fakeUsageLogRepo) Create(ctx context.Context, entry *models.UsageLog) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.entries = append(f.entries, entry)
	return "log-1", nil
}

type fakeQueue struct {
	published [][]byte
	err       error
}

func (f *fakeQueue) Publish(queueName string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, body)
	return nil
}

func (f *fakeQueue) Consume(queueName string, handler func(body []byte)) error { return nil }
func (f *fakeQueue) Close() error                                              { return nil }

func TestRecordWritesLogAndPublishesEvent(t *testing.T) {
	userRepo := &fakeUserRepo{user: &models.User{ID: "user-1"}}
	usageRepo := &fakeUsageLogRepo{}
	queue := &fakeQueue{}
	recorder := NewUsageRecorder(userRepo, usageRepo, queue, "usage_events")

	recorder.Record(context.Background(), models.IdentifyRequest{
		ExtensionID: "ext-123",
		ActionType:  "rewrite",
		Metadata:    models.IdentifyMetadata{InputLength: 120, OutputLength: 80},
		UserAgent:   "Mozilla/5.0",
		IPAddress:   "203.0.113.9",
	})

	require.Len(t, usageRepo.entries, 1)
	entry := usageRepo.entries[0]
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "rewrite", entry.ActionType)
	assert.Equal(t, 120, entry.InputTextLength)
	assert.Equal(t, "203.0.113.9", entry.IPAddress)

	require.Len(t, queue.published, 1)
	var event UsageEvent
	require.NoError(t, json.Unmarshal(queue.published[0], &event))
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, "ext-123", event.ExtensionID)
	assert.Equal(t, "rewrite", event.ActionType)
}

func TestRecordUnknownUserSkipsQuietly(t *testing.T) {
	userRepo := &fakeUserRepo{err: db.ErrNotFound}
	usageRepo := &fakeUsageLogRepo{}
	queue := &fakeQueue{}
	recorder := NewUsageRecorder(userRepo, usageRepo, queue, "usage_events")

	recorder.Record(context.Background(), models.IdentifyRequest{ExtensionID: "ext-x", ActionType: "rewrite"})

	assert.Empty(t, usageRepo.entries)
	assert.Empty(t, queue.published)
}

func TestRecordLogFailureStillPublishes(t *testing.T) {
	userRepo := &fakeUserRepo{user: &models.User{ID: "user-1"}}
	usageRepo := &fakeUsageLogRepo{err: errors.New("write failed")}
	queue := &fakeQueue{}
	recorder := NewUsageRecorder(userRepo, usageRepo, queue, "usage_events")

	recorder.Record(context.Background(), models.IdentifyRequest{ExtensionID: "ext-123", ActionType: "rewrite"})

	assert.Len(t, queue.published, 1)
}

func TestRecordWithoutQueue(t *testing.T) {
	userRepo := &fakeUserRepo{user: &models.User{ID: "user-1"}}
	usageRepo := &fakeUsageLogRepo{}
	recorder := NewUsageRecorder(userRepo, usageRepo, nil, "usage_events")

	recorder.Record(context.Background(), models.IdentifyRequest{ExtensionID: "ext-123", ActionType: "rewrite"})

	assert.Len(t, usageRepo.entries, 1)
}
