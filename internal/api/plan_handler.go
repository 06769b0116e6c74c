package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lekhak-backend-go/internal/core"
)

// PlanHandler serves the plan catalog consumed by the pricing page.
type PlanHandler struct {
	planService core.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(ps core.PlanService) *PlanHandler {
	return &PlanHandler{planService: ps}
}

// ListPlans handles GET /plans.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.ListPlans(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list plans: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load subscription plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"plans":   plans,
	})
}
