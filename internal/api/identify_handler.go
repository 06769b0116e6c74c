package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lekhak-backend-go/internal/core"
	"lekhak-backend-go/internal/models"
)

// IdentifyHandler handles the quota check endpoint the extension calls before
// every AI action.
type IdentifyHandler struct {
	quotaService core.QuotaService
}

// NewIdentifyHandler creates a new IdentifyHandler.
func NewIdentifyHandler(qs core.QuotaService) *IdentifyHandler {
	return &IdentifyHandler{quotaService: qs}
}

// Identify handles POST /users/identify.
// Required-field validation happens here, before any store access, so a
// malformed request can never consume quota.
func (h *IdentifyHandler) Identify(c *gin.Context) {
	var req models.IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	if strings.TrimSpace(req.ExtensionID) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required field: extension_id"})
		return
	}
	if strings.TrimSpace(req.ActionType) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required field: action_type"})
		return
	}

	// Request metadata for the usage log; never trusted from the body.
	req.UserAgent = c.Request.UserAgent()
	req.IPAddress = c.ClientIP()

	decision, err := h.quotaService.Identify(c.Request.Context(), req)
	if err != nil {
		// The decision is already the fail-safe denial; the status code tells
		// the extension this was an outage rather than an exhausted quota.
		c.JSON(http.StatusInternalServerError, decision)
		return
	}
	c.JSON(http.StatusOK, decision)
}
