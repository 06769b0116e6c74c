package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lekhak-backend-go/internal/core"
	"lekhak-backend-go/internal/models"
)

// PaymentHandler handles payment order creation, verification and the
// gateway's webhook deliveries.
type PaymentHandler struct {
	paymentService core.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps core.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

// mapPaymentErrorToStatus maps errors from core.PaymentService to HTTP status
// codes and ErrorResponse bodies.
func mapPaymentErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidPaymentRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid payment request", Details: err.Error()})
	case errors.Is(err, core.ErrWebhookSignature):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Webhook signature verification failed"})
	case errors.Is(err, core.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Payment order not found"})
	default:
		log.Printf("Internal error in PaymentHandler: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Payment operation failed"})
	}
}

// CreateOrder handles POST /payments/create.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.paymentService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		mapPaymentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: result})
}

// VerifyOrder handles GET /payments/verify/:merchantOrderId.
func (h *PaymentHandler) VerifyOrder(c *gin.Context) {
	merchantOrderID := c.Param("merchantOrderId")

	status, err := h.paymentService.VerifyOrder(c.Request.Context(), merchantOrderID)
	if err != nil {
		mapPaymentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  status,
	})
}

// HandleWebhook handles POST /webhooks/phonepe. The gateway authenticates
// itself via the Authorization header; the body must be read raw so the
// signature covers the exact bytes sent.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read webhook body"})
		return
	}

	event, err := h.paymentService.HandleWebhook(c.Request.Context(), c.GetHeader("Authorization"), body)
	if err != nil {
		mapPaymentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"event":   event,
	})
}
