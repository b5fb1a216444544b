package repository

import (
	"context"

	"lendly/internal/domain/entity"
)

// Subscription is a handle on a live query. Stop cancels the underlying
// listener; it is idempotent and safe to call during teardown.
type Subscription interface {
	Stop()
}

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	// ListByParticipant returns the user's conversations ordered by most
	// recently updated first.
	ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error)
	Delete(ctx context.Context, id string) error

	// RecordMessageSent applies the conversation-side effects of a send in
	// one atomic write: last-message snapshot, server update timestamp, and
	// an unread increment for every participant except the sender.
	RecordMessageSent(ctx context.Context, conversation *entity.Conversation, snapshot *entity.MessageSnapshot) error
	// ClearUnread atomically zeroes one participant's unread entry.
	ClearUnread(ctx context.Context, conversationID, userID string) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns a conversation's messages ordered by creation
	// time ascending.
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	// MarkMessagesRead flips read=true on every unread message in the
	// conversation not sent by readerID.
	MarkMessagesRead(ctx context.Context, conversationID, readerID string) error
	// DeleteMessages removes every message belonging to the conversation.
	DeleteMessages(ctx context.Context, conversationID string) error

	// SubscribeToConversations establishes a live query over the user's
	// conversations (most recently updated first) and invokes fn with the
	// full result set on every change. Each delivered slice is a complete
	// snapshot that replaces prior state.
	SubscribeToConversations(ctx context.Context, userID string, fn func([]*entity.Conversation)) (Subscription, error)
	// SubscribeToMessages does the same for one conversation's messages,
	// ordered by creation time ascending.
	SubscribeToMessages(ctx context.Context, conversationID string, fn func([]*entity.Message)) (Subscription, error)
}
