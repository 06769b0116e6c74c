package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lekhak-backend-go/internal/models"
)

// Firestore collection names. The extension ID is the document ID in
// users, user_quotas and user_subscriptions, which keeps the quota
// transaction to direct document reads.
const (
	usersCollection         = "users"
	quotasCollection        = "user_quotas"
	subscriptionsCollection = "user_subscriptions"
	plansCollection         = "subscription_plans"
	usageLogsCollection     = "usage_logs"
	paymentOrdersCollection = "payment_orders"
)

// ErrNotFound is a common error for when a document is not found in Firestore.
var ErrNotFound = errors.New("document not found")

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UserRepository.")
	}
	return &firestoreUserRepository{client: client}
}

// GetByExtensionID retrieves a user document by the opaque extension ID.
func (r *firestoreUserRepository) GetByExtensionID(ctx context.Context, extensionID string) (*models.User, error) {
	if extensionID == "" {
		return nil, errors.New("extensionID cannot be empty for GetByExtensionID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(extensionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with extension ID '%s' not found: %w", extensionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with extension ID '%s': %w", extensionID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for extension ID '%s': %w", extensionID, err)
	}
	user.ExtensionID = docSnap.Ref.ID

	return &user, nil
}
