package entity

import "time"

// MessageSnapshot is the denormalized copy of a conversation's most recent
// message, kept on the conversation for list rendering.
type MessageSnapshot struct {
	Content   string    `json:"content" firestore:"content"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

// Conversation is a two-party message thread, optionally scoped to a
// listed item. At most one conversation exists per participant pair.
type Conversation struct {
	ID               string            `json:"id" firestore:"id"`
	Participants     []string          `json:"participants" firestore:"participants"`
	ParticipantNames map[string]string `json:"participant_names" firestore:"participantNames"`
	LastMessage      *MessageSnapshot  `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	UpdatedAt        time.Time         `json:"updated_at" firestore:"updatedAt,serverTimestamp"`
	RelatedItemID    string            `json:"related_item_id,omitempty" firestore:"relatedItemId,omitempty"`
	RelatedItemTitle string            `json:"related_item_title,omitempty" firestore:"relatedItemTitle,omitempty"`
	// UnreadCount maps participant id to that participant's count of
	// messages not yet marked read. It is the authoritative unread signal.
	UnreadCount map[string]int `json:"unread_count" firestore:"unreadCount"`
	CreatedAt   time.Time      `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// UnreadFor returns the unread count for userID, treating a missing
// entry as zero.
func (c *Conversation) UnreadFor(userID string) int {
	if c.UnreadCount == nil {
		return 0
	}
	return c.UnreadCount[userID]
}
