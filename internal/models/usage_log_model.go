package models

import "time"

// UsageLog is an append-only record of one accounted action. Entries are
// written once per allowed usage event and never mutated or deleted.
type UsageLog struct {
	ID               string    `json:"id" firestore:"-"`
	UserID           string    `json:"user_id" firestore:"userId"`
	ActionType       string    `json:"action_type" firestore:"actionType"`
	InputTextLength  int       `json:"input_text_length,omitempty" firestore:"inputTextLength,omitempty"`
	OutputTextLength int       `json:"output_text_length,omitempty" firestore:"outputTextLength,omitempty"`
	UserAgent        string    `json:"user_agent,omitempty" firestore:"userAgent,omitempty"`
	IPAddress        string    `json:"ip_address,omitempty" firestore:"ipAddress,omitempty"`
	Timestamp        time.Time `json:"timestamp" firestore:"timestamp"`
}
