package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lekhak-backend-go/internal/db"
	"lekhak-backend-go/internal/models"
	"lekhak-backend-go/pkg/cache"
)

const (
	plansCacheKey = "plans:active"
	plansCacheTTL = 10 * time.Minute
)

// planService implements PlanService with an optional read-through cache.
// The plan catalog changes rarely, so a short TTL is plenty.
type planService struct {
	planRepo db.PlanRepository
	cache    cache.Cache // may be nil
}

// NewPlanService creates a new PlanService instance. c may be nil, in which
// case every call hits the store.
func NewPlanService(planRepo db.PlanRepository, c cache.Cache) PlanService {
	return &planService{planRepo: planRepo, cache: c}
}

// ListPlans returns the active plans ordered by monthly price.
func (s *planService) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, plansCacheKey); err != nil {
			log.Printf("Plan cache read failed: %v", err)
		} else if cached != "" {
			var plans []*models.Plan
			if err := json.Unmarshal([]byte(cached), &plans); err == nil {
				return plans, nil
			}
			log.Printf("Discarding malformed plan cache entry")
		}
	}

	plans, err := s.planRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(plans); err == nil {
			if err := s.cache.Set(ctx, plansCacheKey, string(raw), plansCacheTTL); err != nil {
				log.Printf("Plan cache write failed: %v", err)
			}
		}
	}
	return plans, nil
}
