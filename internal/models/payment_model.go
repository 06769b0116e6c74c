package models

import "time"

// Payment order statuses as stored in payment_orders.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// PaymentOrder tracks one payment attempt against the gateway. The merchant
// order ID is the Firestore document ID and the correlation key for webhook
// and verification calls.
type PaymentOrder struct {
	MerchantOrderID string    `json:"merchant_order_id" firestore:"-"`
	UserID          string    `json:"user_id" firestore:"userId"`
	PlanID          string    `json:"plan_id" firestore:"planId"`
	PlanName        string    `json:"plan_name" firestore:"planName"`
	AmountPaise     int64     `json:"amount_paise" firestore:"amountPaise"`
	Status          string    `json:"status" firestore:"status"`
	GatewayToken    string    `json:"gateway_token,omitempty" firestore:"gatewayToken,omitempty"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updated_at" firestore:"updatedAt"`
}
