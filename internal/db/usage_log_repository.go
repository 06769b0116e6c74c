package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"

	"lekhak-backend-go/internal/models"
)

// firestoreUsageLogRepository implements the UsageLogRepository interface
// using Firestore. Entries are append-only; nothing ever updates or deletes
// a usage log document.
type firestoreUsageLogRepository struct {
	client *firestore.Client
}

// NewFirestoreUsageLogRepository creates a new instance of firestoreUsageLogRepository.
func NewFirestoreUsageLogRepository(client *firestore.Client) UsageLogRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UsageLogRepository.")
	}
	return &firestoreUsageLogRepository{client: client}
}

// Create appends one usage log entry and returns its generated document ID.
func (r *firestoreUsageLogRepository) Create(ctx context.Context, entry *models.UsageLog) (string, error) {
	if entry == nil {
		return "", errors.New("usage log entry cannot be nil")
	}
	if entry.UserID == "" {
		return "", errors.New("usage log entry requires a user ID")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	docRef, _, err := r.client.Collection(usageLogsCollection).Add(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("failed to append usage log for user '%s': %w", entry.UserID, err)
	}
	return docRef.ID, nil
}
