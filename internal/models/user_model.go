package models

import "time"

// User represents one extension installation known to the backend.
// The opaque extension ID issued by the client is the Firestore document ID;
// it is a bearer identifier, not an authenticated principal.
type User struct {
	ID             string    `json:"id" firestore:"id"` // Internal UUID, assigned on first sight
	ExtensionID    string    `json:"extension_id" firestore:"-"`
	Email          string    `json:"email,omitempty" firestore:"email,omitempty"`
	Name           string    `json:"name,omitempty" firestore:"name,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty" firestore:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updatedAt"`
}
