package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"lekhak-backend-go/internal/db"
	"lekhak-backend-go/internal/models"
	"lekhak-backend-go/pkg/phonepe"
)

// Payment errors the handler maps to HTTP statuses.
var (
	ErrInvalidPaymentRequest = errors.New("invalid payment request")
	ErrWebhookSignature      = errors.New("webhook signature verification failed")
	ErrOrderNotFound         = errors.New("payment order not found")
)

// PaymentGateway is the slice of the PhonePe client the payment service uses.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req phonepe.CreateOrderRequest) (*phonepe.CreateOrderResponse, error)
	OrderStatus(ctx context.Context, merchantOrderID string) (map[string]interface{}, error)
}

// PaymentOrderResult is returned to the client after order creation.
type PaymentOrderResult struct {
	MerchantOrderID string `json:"merchant_order_id"`
	PaymentToken    string `json:"payment_token"`
	CheckoutURL     string `json:"checkout_url"`
	AmountPaise     int64  `json:"amount_paise"`
	ExpiresAt       int64  `json:"expires_at,omitempty"`
}

// paymentService implements PaymentService: it creates gateway orders,
// proxies status checks and turns webhook deliveries into subscription state.
type paymentService struct {
	gateway         PaymentGateway
	paymentRepo     db.PaymentRepository
	subRepo         db.SubscriptionRepository
	planRepo        db.PlanRepository
	webhookPassword string
}

// NewPaymentService creates a new PaymentService instance.
func NewPaymentService(gateway PaymentGateway, paymentRepo db.PaymentRepository, subRepo db.SubscriptionRepository, planRepo db.PlanRepository, webhookPassword string) PaymentService {
	return &paymentService{
		gateway:         gateway,
		paymentRepo:     paymentRepo,
		subRepo:         subRepo,
		planRepo:        planRepo,
		webhookPassword: webhookPassword,
	}
}

// CreateOrder creates a checkout order with the gateway and persists it as
// pending. Amounts arrive in rupees and are billed in paise.
func (s *paymentService) CreateOrder(ctx context.Context, req models.CreatePaymentRequest) (*PaymentOrderResult, error) {
	userID := strings.TrimSpace(req.UserID)
	planID := strings.TrimSpace(req.PlanID)
	if userID == "" || planID == "" {
		return nil, fmt.Errorf("%w: user_id and plan_id are required", ErrInvalidPaymentRequest)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidPaymentRequest)
	}

	merchantOrderID := newMerchantOrderID(userID)
	amountPaise := int64(math.Round(req.Amount * 100))

	order, err := s.gateway.CreateOrder(ctx, phonepe.CreateOrderRequest{
		MerchantOrderID: merchantOrderID,
		AmountPaise:     amountPaise,
		MetaInfo: map[string]string{
			"udf1": userID,
			"udf2": planID,
			"udf3": req.PlanName,
			"udf4": "lekhakai_website",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gateway order creation failed: %w", err)
	}

	record := &models.PaymentOrder{
		MerchantOrderID: merchantOrderID,
		UserID:          userID,
		PlanID:          planID,
		PlanName:        req.PlanName,
		AmountPaise:     amountPaise,
		Status:          models.PaymentStatusPending,
		GatewayToken:    order.Token,
	}
	if err := s.paymentRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store payment order %s: %w", merchantOrderID, err)
	}

	log.Printf("Created payment order %s for user '%s' (plan '%s', %d paise)", merchantOrderID, userID, planID, amountPaise)
	return &PaymentOrderResult{
		MerchantOrderID: merchantOrderID,
		PaymentToken:    order.Token,
		CheckoutURL:     phonepe.CheckoutPageURL(order.Token),
		AmountPaise:     amountPaise,
		ExpiresAt:       order.ExpiresAt,
	}, nil
}

// VerifyOrder returns the gateway's detailed status for the order.
func (s *paymentService) VerifyOrder(ctx context.Context, merchantOrderID string) (map[string]interface{}, error) {
	if strings.TrimSpace(merchantOrderID) == "" {
		return nil, fmt.Errorf("%w: merchant order ID is required", ErrInvalidPaymentRequest)
	}
	status, err := s.gateway.OrderStatus(ctx, merchantOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify order %s: %w", merchantOrderID, err)
	}
	return status, nil
}

// HandleWebhook verifies the delivery's signature, then applies the event:
// completed orders are marked paid and activate a monthly subscription,
// failed orders are marked failed, refund events are only logged.
func (s *paymentService) HandleWebhook(ctx context.Context, authHeader string, body []byte) (string, error) {
	if !phonepe.VerifyWebhookSignature(authHeader, body, s.webhookPassword) {
		return "", ErrWebhookSignature
	}

	var event phonepe.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return "", fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	switch event.Event {
	case phonepe.EventOrderCompleted:
		if err := s.completeOrder(ctx, event.Payload.MerchantOrderID); err != nil {
			return event.Event, err
		}
	case phonepe.EventOrderFailed:
		if err := s.paymentRepo.UpdateStatus(ctx, event.Payload.MerchantOrderID, models.PaymentStatusFailed); err != nil {
			return event.Event, fmt.Errorf("failed to mark order %s failed: %w", event.Payload.MerchantOrderID, err)
		}
		log.Printf("Payment order %s failed (state %s)", event.Payload.MerchantOrderID, event.Payload.State)
	case phonepe.EventRefundCompleted, phonepe.EventRefundFailed:
		log.Printf("Received refund event %s for order %s", event.Event, event.Payload.MerchantOrderID)
	default:
		log.Printf("Ignoring unknown webhook event '%s'", event.Event)
	}
	return event.Event, nil
}

// completeOrder marks the order paid and activates a one-month subscription
// for the order's user, starting now.
func (s *paymentService) completeOrder(ctx context.Context, merchantOrderID string) error {
	order, err := s.paymentRepo.GetByMerchantOrderID(ctx, merchantOrderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, merchantOrderID)
		}
		return fmt.Errorf("failed to load order %s: %w", merchantOrderID, err)
	}

	if err := s.paymentRepo.UpdateStatus(ctx, merchantOrderID, models.PaymentStatusPaid); err != nil {
		return fmt.Errorf("failed to mark order %s paid: %w", merchantOrderID, err)
	}

	planName := order.PlanName
	if plan, err := s.planRepo.GetByID(ctx, order.PlanID); err != nil {
		log.Printf("Failed to load plan '%s' for order %s: %v", order.PlanID, merchantOrderID, err)
	} else {
		planName = plan.Name
	}

	now := time.Now().UTC()
	sub := &models.Subscription{
		UserID:             order.UserID,
		PlanID:             order.PlanID,
		PlanName:           planName,
		Status:             models.SubscriptionStatusActive,
		BillingCycle:       "monthly",
		GatewayOrderID:     merchantOrderID,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
	}
	if err := s.subRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("failed to activate subscription for user '%s': %w", order.UserID, err)
	}

	log.Printf("Activated subscription for user '%s' on plan '%s' until %s", order.UserID, planName, sub.CurrentPeriodEnd.Format(time.RFC3339))
	return nil
}

// newMerchantOrderID builds the gateway order reference from a stable user
// prefix and the current Unix time.
func newMerchantOrderID(userID string) string {
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("LEKHAK_%s_%d", prefix, time.Now().Unix())
}
