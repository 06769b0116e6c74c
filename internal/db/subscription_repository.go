package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lekhak-backend-go/internal/models"
)

// firestoreSubscriptionRepository implements the SubscriptionRepository
// interface using Firestore. The extension ID is the document ID, enforcing
// the zero-or-one subscription record per user.
type firestoreSubscriptionRepository struct {
	client *firestore.Client
}

// NewFirestoreSubscriptionRepository creates a new instance of firestoreSubscriptionRepository.
func NewFirestoreSubscriptionRepository(client *firestore.Client) SubscriptionRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for SubscriptionRepository.")
	}
	return &firestoreSubscriptionRepository{client: client}
}

// Upsert writes the subscription record for sub.UserID, replacing any
// previous one. Called from the payment webhook when an order completes.
func (r *firestoreSubscriptionRepository) Upsert(ctx context.Context, sub *models.Subscription) error {
	if sub == nil || sub.UserID == "" {
		return errors.New("subscription with a user ID is required for Upsert operation")
	}
	sub.UpdatedAt = time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = sub.UpdatedAt
	}
	_, err := r.client.Collection(subscriptionsCollection).Doc(sub.UserID).Set(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription for user '%s': %w", sub.UserID, err)
	}
	return nil
}

// GetByExtensionID retrieves the subscription record for an extension ID.
func (r *firestoreSubscriptionRepository) GetByExtensionID(ctx context.Context, extensionID string) (*models.Subscription, error) {
	if extensionID == "" {
		return nil, errors.New("extensionID cannot be empty for GetByExtensionID operation")
	}
	docSnap, err := r.client.Collection(subscriptionsCollection).Doc(extensionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("subscription for extension ID '%s' not found: %w", extensionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subscription for extension ID '%s': %w", extensionID, err)
	}
	var sub models.Subscription
	if err := docSnap.DataTo(&sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription data for extension ID '%s': %w", extensionID, err)
	}
	return &sub, nil
}
