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

// firestorePaymentRepository implements the PaymentRepository interface using
// Firestore, keyed by merchant order ID.
type firestorePaymentRepository struct {
	client *firestore.Client
}

// NewFirestorePaymentRepository creates a new instance of firestorePaymentRepository.
func NewFirestorePaymentRepository(client *firestore.Client) PaymentRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PaymentRepository.")
	}
	return &firestorePaymentRepository{client: client}
}

// Create stores a new payment order record.
func (r *firestorePaymentRepository) Create(ctx context.Context, order *models.PaymentOrder) error {
	if order == nil || order.MerchantOrderID == "" {
		return errors.New("payment order with a merchant order ID is required for Create operation")
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	_, err := r.client.Collection(paymentOrdersCollection).Doc(order.MerchantOrderID).Create(ctx, order)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("payment order '%s' already exists: %w", order.MerchantOrderID, err)
		}
		return fmt.Errorf("failed to create payment order '%s': %w", order.MerchantOrderID, err)
	}
	return nil
}

// GetByMerchantOrderID retrieves a payment order record.
func (r *firestorePaymentRepository) GetByMerchantOrderID(ctx context.Context, merchantOrderID string) (*models.PaymentOrder, error) {
	if merchantOrderID == "" {
		return nil, errors.New("merchantOrderID cannot be empty for GetByMerchantOrderID operation")
	}
	docSnap, err := r.client.Collection(paymentOrdersCollection).Doc(merchantOrderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("payment order '%s' not found: %w", merchantOrderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment order '%s': %w", merchantOrderID, err)
	}
	var order models.PaymentOrder
	if err := docSnap.DataTo(&order); err != nil {
		return nil, fmt.Errorf("failed to decode payment order data for '%s': %w", merchantOrderID, err)
	}
	order.MerchantOrderID = docSnap.Ref.ID
	return &order, nil
}

// UpdateStatus transitions a payment order to the given status.
func (r *firestorePaymentRepository) UpdateStatus(ctx context.Context, merchantOrderID, orderStatus string) error {
	if merchantOrderID == "" {
		return errors.New("merchantOrderID cannot be empty for UpdateStatus operation")
	}
	_, err := r.client.Collection(paymentOrdersCollection).Doc(merchantOrderID).Update(ctx, []firestore.Update{
		{Path: "status", Value: orderStatus},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update payment order '%s' to status '%s': %w", merchantOrderID, orderStatus, err)
	}
	return nil
}
