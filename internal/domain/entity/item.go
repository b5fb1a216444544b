package entity

import "time"

type Item struct {
	ID          string  `json:"id" firestore:"id"`
	Title       string  `json:"title" firestore:"title"`
	Description string  `json:"description" firestore:"description"` // markdown, may embed image references
	Category    string  `json:"category" firestore:"category"`
	Price       float64 `json:"price" firestore:"price"` // per day
	OwnerID     string  `json:"owner_id" firestore:"ownerId"`
	OwnerName   string  `json:"owner_name" firestore:"ownerName"`
	// Available is flipped to false when a request targeting this item is
	// approved; otherwise it is owner-controlled.
	Available bool      `json:"available" firestore:"available"`
	ImageURLs []string  `json:"image_urls" firestore:"imageUrls"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}
