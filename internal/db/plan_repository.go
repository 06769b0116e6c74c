package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lekhak-backend-go/internal/models"
)

// firestorePlanRepository implements the PlanRepository interface using
// Firestore. The catalog is small (a handful of plans) and read-only from
// this service's perspective.
type firestorePlanRepository struct {
	client *firestore.Client
}

// NewFirestorePlanRepository creates a new instance of firestorePlanRepository.
func NewFirestorePlanRepository(client *firestore.Client) PlanRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PlanRepository.")
	}
	return &firestorePlanRepository{client: client}
}

// ListActive returns the active plans ordered by ascending monthly price,
// the order the pricing page renders them in.
func (r *firestorePlanRepository) ListActive(ctx context.Context) ([]*models.Plan, error) {
	iter := r.client.Collection(plansCollection).Where("isActive", "==", true).Documents(ctx)
	defer iter.Stop()

	var plans []*models.Plan
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list active plans: %w", err)
		}
		var plan models.Plan
		if err := docSnap.DataTo(&plan); err != nil {
			return nil, fmt.Errorf("failed to decode plan '%s': %w", docSnap.Ref.ID, err)
		}
		plan.ID = docSnap.Ref.ID
		plans = append(plans, &plan)
	}

	sort.Slice(plans, func(i, j int) bool { return plans[i].PriceMonthly < plans[j].PriceMonthly })
	return plans, nil
}

// GetByID retrieves a single plan from the catalog.
func (r *firestorePlanRepository) GetByID(ctx context.Context, planID string) (*models.Plan, error) {
	if planID == "" {
		return nil, errors.New("planID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(plansCollection).Doc(planID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("plan with ID '%s' not found: %w", planID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get plan with ID '%s': %w", planID, err)
	}
	var plan models.Plan
	if err := docSnap.DataTo(&plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan data for ID '%s': %w", planID, err)
	}
	plan.ID = docSnap.Ref.ID
	return &plan, nil
}
