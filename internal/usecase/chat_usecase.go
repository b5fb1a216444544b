package usecase

import (
	"context"

	"lendly/internal/domain/entity"
	"lendly/internal/domain/repository"
	"lendly/internal/infrastructure/metrics"
	"lendly/internal/infrastructure/ratelimit"
	ws "lendly/internal/infrastructure/websocket"
	"lendly/pkg/errors"
	"lendly/pkg/logger"
)

type ChatUseCase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	itemRepo         repository.ItemRepository
	wsManager        *ws.Manager
	rateLimiter      *ratelimit.RateLimiter
}

func NewChatUseCase(
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	wsManager *ws.Manager,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		itemRepo:         itemRepo,
		wsManager:        wsManager,
		rateLimiter:      rateLimiter,
	}
}

type StartConversationInput struct {
	RecipientID   string `json:"recipient_id" validate:"required"`
	RelatedItemID string `json:"related_item_id"`
}

type SendMessageInput struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	Content        string `json:"content" validate:"required,max=4000"`
}

// GetOrCreateConversation returns the existing conversation between the
// caller and the recipient, or creates one. An existing conversation is
// returned untouched: repeat contact over a different item does not
// overwrite the original item reference or the stored names.
func (uc *ChatUseCase) GetOrCreateConversation(ctx context.Context, userID string, input StartConversationInput) (*entity.Conversation, error) {
	if userID == input.RecipientID {
		return nil, errors.BadRequest("You cannot start a conversation with yourself", nil)
	}

	existing, err := uc.conversationRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, conversation := range existing {
		if conversation.HasParticipant(input.RecipientID) {
			return conversation, nil
		}
	}

	if !uc.rateLimiter.Allow(userID, ratelimit.ActionCreateChat) {
		metrics.RateLimited.WithLabelValues(ratelimit.ActionCreateChat).Inc()
		return nil, errors.TooManyRequests("Too many new conversations. Please wait before starting another")
	}

	caller, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	recipient, err := uc.userRepo.GetByID(ctx, input.RecipientID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Recipient", err)
		}
		return nil, err
	}

	conversation := &entity.Conversation{
		Participants: []string{userID, input.RecipientID},
		ParticipantNames: map[string]string{
			userID:            caller.DisplayName,
			input.RecipientID: recipient.DisplayName,
		},
		UnreadCount: map[string]int{
			userID:            0,
			input.RecipientID: 0,
		},
	}

	if input.RelatedItemID != "" {
		item, err := uc.itemRepo.GetByID(ctx, input.RelatedItemID)
		if err != nil {
			return nil, err
		}
		conversation.RelatedItemID = item.ID
		conversation.RelatedItemTitle = item.Title
	}

	if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
		return nil, err
	}

	metrics.ConversationsCreated.Inc()
	return conversation, nil
}

// SendMessage appends a message and applies the conversation-side effects
// (last-message snapshot, unread increments) in one atomic update.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*entity.Message, error) {
	if !uc.rateLimiter.Allow(userID, ratelimit.ActionSendMessage) {
		metrics.RateLimited.WithLabelValues(ratelimit.ActionSendMessage).Inc()
		return nil, errors.TooManyRequests("Too many messages. Please slow down")
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	message := &entity.Message{
		ConversationID: conversation.ID,
		SenderID:       userID,
		SenderName:     conversation.ParticipantNames[userID],
		Content:        input.Content,
		Read:           false,
	}
	if err := uc.conversationRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	snapshot := &entity.MessageSnapshot{
		Content:  input.Content,
		SenderID: userID,
	}
	if err := uc.conversationRepo.RecordMessageSent(ctx, conversation, snapshot); err != nil {
		return nil, err
	}

	metrics.MessagesSent.Inc()

	for _, participantID := range conversation.Participants {
		if participantID != userID {
			uc.wsManager.SendEvent(participantID, ws.EventNewMessage, message)
		}
	}

	return message, nil
}

// MarkMessagesAsRead zeroes the caller's unread counter, then flips the
// read flag on foreign unread messages. The counter is the authoritative
// unread signal; the per-message flip is best effort.
func (uc *ChatUseCase) MarkMessagesAsRead(ctx context.Context, userID, conversationID string) error {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant in this conversation", nil)
	}

	if err := uc.conversationRepo.ClearUnread(ctx, conversationID, userID); err != nil {
		return err
	}

	if err := uc.conversationRepo.MarkMessagesRead(ctx, conversationID, userID); err != nil {
		logger.Warn("Failed to flip read flags in conversation %s: %v", conversationID, err)
	}

	return nil
}

// GetTotalUnreadCount sums the caller's unread entry across all their
// conversations, treating a missing entry as zero.
func (uc *ChatUseCase) GetTotalUnreadCount(ctx context.Context, userID string) (int, error) {
	conversations, err := uc.conversationRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, conversation := range conversations {
		total += conversation.UnreadFor(userID)
	}

	return total, nil
}

func (uc *ChatUseCase) GetUserConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	return uc.conversationRepo.ListByParticipant(ctx, userID)
}

func (uc *ChatUseCase) GetConversationMessages(ctx context.Context, userID, conversationID string) ([]*entity.Message, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	return uc.conversationRepo.ListMessages(ctx, conversationID)
}

func (uc *ChatUseCase) SubscribeToConversations(ctx context.Context, userID string, fn func([]*entity.Conversation)) (repository.Subscription, error) {
	return uc.conversationRepo.SubscribeToConversations(ctx, userID, fn)
}

func (uc *ChatUseCase) SubscribeToMessages(ctx context.Context, userID, conversationID string, fn func([]*entity.Message)) (repository.Subscription, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	return uc.conversationRepo.SubscribeToMessages(ctx, conversationID, fn)
}

// DeleteConversation removes the conversation and cascades to its
// messages so none are left orphaned.
func (uc *ChatUseCase) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant in this conversation", nil)
	}

	if err := uc.conversationRepo.DeleteMessages(ctx, conversationID); err != nil {
		return err
	}

	return uc.conversationRepo.Delete(ctx, conversationID)
}
