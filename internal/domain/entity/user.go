package entity

import "time"

type User struct {
	ID          string            `json:"id" firestore:"id"`
	Email       string            `json:"email" firestore:"email"`
	DisplayName string            `json:"display_name" firestore:"displayName"`
	// Optional out-of-band contact channels, keyed by channel type
	// ("line", "whatsapp", "telegram", ...).
	ContactMethods map[string]string `json:"contact_methods,omitempty" firestore:"contactMethods,omitempty"`
	CreatedAt      time.Time         `json:"created_at" firestore:"createdAt,serverTimestamp"`
}
