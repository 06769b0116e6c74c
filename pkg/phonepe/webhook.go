package phonepe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Webhook event types delivered by PhonePe.
const (
	EventOrderCompleted  = "checkout.order.completed"
	EventOrderFailed     = "checkout.order.failed"
	EventRefundCompleted = "pg.refund.completed"
	EventRefundFailed    = "pg.refund.failed"
)

// WebhookEvent is the envelope PhonePe posts to the webhook endpoint.
type WebhookEvent struct {
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

// WebhookPayload carries the order details of a webhook event.
type WebhookPayload struct {
	MerchantOrderID string `json:"merchantOrderId"`
	State           string `json:"state,omitempty"`
	Amount          int64  `json:"amount,omitempty"`
}

// VerifyWebhookSignature checks the Authorization header of a webhook
// delivery: "SHA256 <hex>" where <hex> is SHA256(body + webhookPassword).
// Comparison is constant-time.
func VerifyWebhookSignature(authHeader string, body []byte, webhookPassword string) bool {
	if webhookPassword == "" {
		return false
	}
	if !strings.HasPrefix(authHeader, "SHA256") {
		return false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return false
	}
	received := strings.TrimSpace(parts[1])

	sum := sha256.Sum256(append(append([]byte{}, body...), []byte(webhookPassword)...))
	expected := hex.EncodeToString(sum[:])

	return hmac.Equal([]byte(received), []byte(expected))
}
