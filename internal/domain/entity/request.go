package entity

import "time"

// Borrow request statuses. Status is monotonic: pending may move to
// approved or rejected, both of which are terminal.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// SwapOffer is the item-for-item variant of a borrow request. The fields
// travel as one group: either the whole offer is present or the request is
// a plain borrow.
type SwapOffer struct {
	ItemID    string `json:"item_id" firestore:"itemId"`
	ItemTitle string `json:"item_title" firestore:"itemTitle"`
	Duration  int    `json:"duration" firestore:"duration"` // days
}

type BorrowRequest struct {
	ID           string `json:"id" firestore:"id"`
	ItemID       string `json:"item_id" firestore:"itemId"`
	ItemTitle    string `json:"item_title" firestore:"itemTitle"`
	BorrowerID   string `json:"borrower_id" firestore:"borrowerId"`
	BorrowerName string `json:"borrower_name" firestore:"borrowerName"`
	OwnerID      string `json:"owner_id" firestore:"ownerId"`
	OwnerName    string `json:"owner_name" firestore:"ownerName"`
	Status       string `json:"status" firestore:"status"`
	// DeliveryMessage is free-text logistics written by the owner at
	// approval time.
	DeliveryMessage string `json:"delivery_message,omitempty" firestore:"deliveryMessage,omitempty"`
	// PaymentRequired is meaningful only for plain borrow requests; it is
	// forced false for swaps.
	PaymentRequired bool       `json:"payment_required" firestore:"paymentRequired"`
	Swap            *SwapOffer `json:"swap,omitempty" firestore:"swap,omitempty"`
	CreatedAt       time.Time  `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

func (r *BorrowRequest) IsSwap() bool {
	return r.Swap != nil
}

func (r *BorrowRequest) IsTerminal() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusRejected
}
