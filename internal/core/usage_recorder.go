package core

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"lekhak-backend-go/internal/db"
	"lekhak-backend-go/internal/models"
	"lekhak-backend-go/pkg/messagequeue"
)

// UsageEvent is the queue message published for each allowed usage.
type UsageEvent struct {
	UserID       string    `json:"user_id"`
	ExtensionID  string    `json:"extension_id"`
	ActionType   string    `json:"action_type"`
	InputLength  int       `json:"input_length,omitempty"`
	OutputLength int       `json:"output_length,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// usageRecorder implements UsageRecorder: it resolves the user, appends a
// usage log entry and publishes a usage event. Every step is best-effort;
// failures are logged and swallowed so they structurally cannot influence
// the decision already computed from the check-and-increment result.
type usageRecorder struct {
	userRepo  db.UserRepository
	usageRepo db.UsageLogRepository
	queue     messagequeue.MessageQueue // may be nil
	queueName string
}

// NewUsageRecorder creates a new UsageRecorder. queue may be nil, in which
// case no events are published.
func NewUsageRecorder(userRepo db.UserRepository, usageRepo db.UsageLogRepository, queue messagequeue.MessageQueue, queueName string) UsageRecorder {
	return &usageRecorder{
		userRepo:  userRepo,
		usageRepo: usageRepo,
		queue:     queue,
		queueName: queueName,
	}
}

// Record implements UsageRecorder.
func (r *usageRecorder) Record(ctx context.Context, req models.IdentifyRequest) {
	user, err := r.userRepo.GetByExtensionID(ctx, req.ExtensionID)
	if err != nil {
		// "Not found" and lookup failures both end here: no log entry, no event.
		log.Printf("Failed to resolve user for usage logging (extension '%s'): %v", req.ExtensionID, err)
		return
	}

	now := time.Now().UTC()
	entry := &models.UsageLog{
		UserID:           user.ID,
		ActionType:       req.ActionType,
		InputTextLength:  req.Metadata.InputLength,
		OutputTextLength: req.Metadata.OutputLength,
		UserAgent:        req.UserAgent,
		IPAddress:        req.IPAddress,
		Timestamp:        now,
	}
	if _, err := r.usageRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to log usage for user '%s': %v", user.ID, err)
	}

	if r.queue == nil {
		return
	}
	event := UsageEvent{
		UserID:       user.ID,
		ExtensionID:  req.ExtensionID,
		ActionType:   req.ActionType,
		InputLength:  req.Metadata.InputLength,
		OutputLength: req.Metadata.OutputLength,
		Timestamp:    now,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode usage event for user '%s': %v", user.ID, err)
		return
	}
	if err := r.queue.Publish(r.queueName, body); err != nil {
		log.Printf("Failed to publish usage event for user '%s': %v", user.ID, err)
	}
}
