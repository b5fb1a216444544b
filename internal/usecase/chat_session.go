package usecase

import (
	"context"
	"sync"

	"lendly/internal/domain/entity"
	"lendly/internal/domain/repository"
	"lendly/pkg/errors"
)

// ChatSessionState is the snapshot pushed to the presentation layer. Each
// emitted state is authoritative and fully replaces prior state.
type ChatSessionState struct {
	Conversations []*entity.Conversation `json:"conversations"`
	Current       *entity.Conversation   `json:"current,omitempty"`
	Messages      []*entity.Message      `json:"messages"`
	UnreadCount   int                    `json:"unread_count"`
	Loading       bool                   `json:"loading"`
	Error         string                 `json:"error,omitempty"`
}

// ChatSession is the per-user chat context. It is constructed once per
// login, holds the live conversation and message subscriptions, and is
// torn down with Close on logout.
type ChatSession struct {
	chat   *ChatUseCase
	userID string
	emit   func(ChatSessionState)

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once

	mu              sync.Mutex
	conversations   []*entity.Conversation
	current         *entity.Conversation
	messages        []*entity.Message
	unread          int
	loading         bool
	lastError       string
	conversationSub repository.Subscription
	messageSub      repository.Subscription
}

// NewChatSession opens a session for userID and subscribes to their
// conversation list. emit is invoked with a fresh state snapshot on every
// change; it must not block.
func NewChatSession(ctx context.Context, chat *ChatUseCase, userID string, emit func(ChatSessionState)) (*ChatSession, error) {
	ctx, cancel := context.WithCancel(ctx)

	s := &ChatSession{
		chat:    chat,
		userID:  userID,
		emit:    emit,
		ctx:     ctx,
		cancel:  cancel,
		loading: true,
	}

	sub, err := chat.SubscribeToConversations(ctx, userID, s.onConversations)
	if err != nil {
		cancel()
		return nil, err
	}
	s.conversationSub = sub

	s.emitState()
	return s, nil
}

func (s *ChatSession) onConversations(conversations []*entity.Conversation) {
	s.mu.Lock()
	s.conversations = conversations
	s.loading = false

	total := 0
	for _, conversation := range conversations {
		total += conversation.UnreadFor(s.userID)
	}
	s.unread = total

	// Keep the selection in sync with the pushed snapshot.
	if s.current != nil {
		var refreshed *entity.Conversation
		for _, conversation := range conversations {
			if conversation.ID == s.current.ID {
				refreshed = conversation
				break
			}
		}
		s.current = refreshed
		if refreshed == nil {
			s.messages = nil
			s.stopMessageSubLocked()
		}
	}
	s.mu.Unlock()

	s.emitState()
}

func (s *ChatSession) onMessages(messages []*entity.Message) {
	s.mu.Lock()
	s.messages = messages
	s.mu.Unlock()

	s.emitState()
}

// SendNewMessage sends content to the currently selected conversation.
// On failure the error is surfaced through the emitted state as well, so
// the view can keep the composed content for a retry.
func (s *ChatSession) SendNewMessage(ctx context.Context, content string) error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return errors.BadRequest("No conversation selected", nil)
	}

	_, err := s.chat.SendMessage(ctx, s.userID, SendMessageInput{
		ConversationID: current.ID,
		Content:        content,
	})
	s.setError(err)
	return err
}

// SelectConversation makes id the current conversation, marks its
// messages read, and switches the live message stream to it.
func (s *ChatSession) SelectConversation(ctx context.Context, id string) error {
	var selected *entity.Conversation

	s.mu.Lock()
	for _, conversation := range s.conversations {
		if conversation.ID == id {
			selected = conversation
			break
		}
	}
	s.mu.Unlock()

	if selected == nil {
		conversation, err := s.chat.conversationRepo.GetByID(ctx, id)
		if err != nil {
			s.setError(err)
			return err
		}
		selected = conversation
	}
	if !selected.HasParticipant(s.userID) {
		err := errors.Forbidden("You are not a participant in this conversation", nil)
		s.setError(err)
		return err
	}

	if err := s.chat.MarkMessagesAsRead(ctx, s.userID, id); err != nil {
		s.setError(err)
		return err
	}

	// Reset the selection before subscribing: the stream may deliver its
	// first snapshot synchronously.
	s.mu.Lock()
	s.stopMessageSubLocked()
	s.current = selected
	s.messages = nil
	s.lastError = ""
	s.mu.Unlock()

	sub, err := s.chat.SubscribeToMessages(s.ctx, s.userID, id, s.onMessages)
	if err != nil {
		s.setError(err)
		return err
	}

	s.mu.Lock()
	s.messageSub = sub
	s.mu.Unlock()

	s.emitState()
	return nil
}

// StartNewConversation opens (or reuses) the conversation with another
// user and selects it.
func (s *ChatSession) StartNewConversation(ctx context.Context, otherUserID, itemID string) (*entity.Conversation, error) {
	conversation, err := s.chat.GetOrCreateConversation(ctx, s.userID, StartConversationInput{
		RecipientID:   otherUserID,
		RelatedItemID: itemID,
	})
	if err != nil {
		s.setError(err)
		return nil, err
	}

	if err := s.SelectConversation(ctx, conversation.ID); err != nil {
		return nil, err
	}

	return conversation, nil
}

// DeleteCurrentConversation removes the selected conversation and its
// messages, then clears the selection.
func (s *ChatSession) DeleteCurrentConversation(ctx context.Context) error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return errors.BadRequest("No conversation selected", nil)
	}

	if err := s.chat.DeleteConversation(ctx, s.userID, current.ID); err != nil {
		s.setError(err)
		return err
	}

	s.mu.Lock()
	s.stopMessageSubLocked()
	s.current = nil
	s.messages = nil
	s.lastError = ""
	s.mu.Unlock()

	s.emitState()
	return nil
}

// RefreshUnreadCount recomputes the aggregate badge from the store.
func (s *ChatSession) RefreshUnreadCount(ctx context.Context) (int, error) {
	total, err := s.chat.GetTotalUnreadCount(ctx, s.userID)
	if err != nil {
		s.setError(err)
		return 0, err
	}

	s.mu.Lock()
	s.unread = total
	s.mu.Unlock()

	s.emitState()
	return total, nil
}

// Close tears the session down, cancelling every live subscription. It is
// idempotent and safe to call during teardown.
func (s *ChatSession) Close() {
	s.once.Do(func() {
		s.cancel()

		s.mu.Lock()
		if s.conversationSub != nil {
			s.conversationSub.Stop()
		}
		s.stopMessageSubLocked()
		s.mu.Unlock()
	})
}

// State returns the current snapshot.
func (s *ChatSession) State() ChatSessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *ChatSession) stateLocked() ChatSessionState {
	return ChatSessionState{
		Conversations: s.conversations,
		Current:       s.current,
		Messages:      s.messages,
		UnreadCount:   s.unread,
		Loading:       s.loading,
		Error:         s.lastError,
	}
}

func (s *ChatSession) setError(err error) {
	s.mu.Lock()
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	s.emitState()
}

func (s *ChatSession) emitState() {
	if s.emit == nil {
		return
	}

	s.mu.Lock()
	state := s.stateLocked()
	s.mu.Unlock()

	s.emit(state)
}

func (s *ChatSession) stopMessageSubLocked() {
	if s.messageSub != nil {
		s.messageSub.Stop()
		s.messageSub = nil
	}
}
