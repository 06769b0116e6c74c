package models

// IdentifyMetadata carries optional, client-reported sizes for the accounted
// action. Lengths of zero are simply omitted from the usage log entry.
type IdentifyMetadata struct {
	InputLength  int `json:"input_length,omitempty"`
	OutputLength int `json:"output_length,omitempty"`
}

// IdentifyRequest is the body of POST /users/identify. Field presence is
// validated explicitly in the handler so the error message names the missing
// field, matching what the extension expects.
type IdentifyRequest struct {
	ExtensionID string           `json:"extension_id"`
	ActionType  string           `json:"action_type"`
	Metadata    IdentifyMetadata `json:"metadata"`

	// Filled in server-side from the request, never from the body.
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// JoinWaitlistRequest is the body of POST /waitlist. The OAuth popup posts
// the decoded profile here after sign-in.
type JoinWaitlistRequest struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Source         string `json:"source,omitempty"`
}

// CreatePaymentRequest is the body of POST /payments/create.
type CreatePaymentRequest struct {
	UserID   string  `json:"user_id"`
	PlanID   string  `json:"plan_id"`
	PlanName string  `json:"plan_name"`
	Amount   float64 `json:"amount"` // Rupees; converted to paise for the gateway
}
