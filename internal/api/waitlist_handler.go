package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lekhak-backend-go/internal/core"
	"lekhak-backend-go/internal/models"
)

// WaitlistHandler handles waitlist signups posted by the website's sign-in
// popup.
type WaitlistHandler struct {
	waitlistService core.WaitlistService
}

// NewWaitlistHandler creates a new WaitlistHandler.
func NewWaitlistHandler(ws core.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlistService: ws}
}

// Join handles POST /waitlist.
func (h *WaitlistHandler) Join(c *gin.Context) {
	var req models.JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required field: email"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required field: name"})
		return
	}

	result, err := h.waitlistService.Join(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already registered on the waitlist"})
			return
		}
		log.Printf("Waitlist signup failed for '%s': %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to join the waitlist"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Successfully joined the waitlist",
		Data:    result,
	})
}
