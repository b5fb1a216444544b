package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendly/internal/domain/entity"
	"lendly/internal/infrastructure/ratelimit"
	ws "lendly/internal/infrastructure/websocket"
	"lendly/pkg/errors"
)

func newChatFixture(t *testing.T) (*ChatUseCase, *fakeConversationRepo, *fakeItemRepo) {
	t.Helper()

	userRepo := newFakeUserRepo(
		&entity.User{ID: "u1", Email: "alice@example.com", DisplayName: "Alice"},
		&entity.User{ID: "u2", Email: "bob@example.com", DisplayName: "Bob"},
		&entity.User{ID: "u3", Email: "carol@example.com", DisplayName: "Carol"},
	)
	itemRepo := newFakeItemRepo(
		&entity.Item{ID: "item1", Title: "Drill", OwnerID: "u2", OwnerName: "Bob", Available: true},
	)
	conversationRepo := newFakeConversationRepo()

	uc := NewChatUseCase(conversationRepo, userRepo, itemRepo, ws.NewManager(), ratelimit.NewRateLimiter())
	return uc, conversationRepo, itemRepo
}

func TestGetOrCreateConversationCreatesWithZeroUnread(t *testing.T) {
	uc, _, _ := newChatFixture(t)
	ctx := context.Background()

	conversation, err := uc.GetOrCreateConversation(ctx, "u1", StartConversationInput{
		RecipientID:   "u2",
		RelatedItemID: "item1",
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"u1", "u2"}, conversation.Participants)
	assert.Equal(t, map[string]string{"u1": "Alice", "u2": "Bob"}, conversation.ParticipantNames)
	assert.Equal(t, map[string]int{"u1": 0, "u2": 0}, conversation.UnreadCount)
	assert.Equal(t, "item1", conversation.RelatedItemID)
	assert.Equal(t, "Drill", conversation.RelatedItemTitle)
	assert.Nil(t, conversation.LastMessage)
}

func TestGetOrCreateConversationReusesExistingPair(t *testing.T) {
	uc, conversationRepo, _ := newChatFixture(t)
	ctx := context.Background()

	first, err := uc.GetOrCreateConversation(ctx, "u1", StartConversationInput{
		RecipientID:   "u2",
		RelatedItemID: "item1",
	})
	require.NoError(t, err)

	// Same pair in the opposite order, over no item this time.
	second, err := uc.GetOrCreateConversation(ctx, "u2", StartConversationInput{RecipientID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, conversationRepo.conversations, 1)

	// The existing conversation keeps its original item reference.
	assert.Equal(t, "Drill", second.RelatedItemTitle)
}

func TestGetOrCreateConversationRejectsSelf(t *testing.T) {
	uc, _, _ := newChatFixture(t)

	_, err := uc.GetOrCreateConversation(context.Background(), "u1", StartConversationInput{RecipientID: "u1"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestGetOrCreateConversationUnknownRecipient(t *testing.T) {
	uc, _, _ := newChatFixture(t)

	_, err := uc.GetOrCreateConversation(context.Background(), "u1", StartConversationInput{RecipientID: "ghost"})
	assert.True(t, errors.IsNotFound(err))
}

func TestSendMessageIncrementsOnlyRecipientUnread(t *testing.T) {
	uc, conversationRepo, _ := newChatFixture(t)
	ctx := context.Background()

	conversation, err := uc.GetOrCreateConversation(ctx, "u1", StartConversationInput{RecipientID: "u2"})
	require.NoError(t, err)

	message, err := uc.SendMessage(ctx, "u1", SendMessageInput{
		ConversationID: conversation.ID,
		Content:        "Hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", message.SenderName)
	assert.False(t, message.Read)

	stored := conversationRepo.conversations[conversation.ID]
	assert.Equal(t, 0, stored.UnreadFor("u1"))
	assert.Equal(t, 1, stored.UnreadFor("u2"))
	require.NotNil(t, stored.LastMessage)
	assert.Equal(t, "Hi", stored.LastMessage.Content)
	assert.Equal(t, "u1", stored.LastMessage.SenderID)

	// A second send keeps counting up without resetting anyone.
	_, err = uc.SendMessage(ctx, "u1", SendMessageInput{ConversationID: conversation.ID, Content: "There?"})
	require.NoError(t, err)
	assert.Equal(t, 2, stored.UnreadFor("u2"))
}

func TestSendMessageRequiresParticipant(t *testing.T) {
	uc, _, _ := newChatFixture(t)
	ctx := context.Background()

	conversation, err := uc.GetOrCreateConversation(ctx, "u1", StartConversationInput{RecipientID: "u2"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "u3", SendMessageInput{ConversationID: conversation.ID, Content: "let me in"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMessageRateLimited(t *testing.T) {
	uc, _, _ := newChatFixture(t)
	ctx := context.Background()

	conversation, err := uc.GetOrCreateConversation(ctx, "u1", StartConversationInput{RecipientID: "u2"})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := uc.SendMessage(ctx, "u1", SendMessageInput{ConversationID: conversation.ID, Content: "spam"})
		require.NoError(t, err)
	}

	_, err = uc.SendMessage(ctx, "u1", SendMessageInput{ConversationID: conversation.ID, Content: "spam"})
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))
}

func TestMarkMessagesAsRead(t *testing.T) {
	uc, conversationRepo, _ := newChatFixture(t)
	ctx := context.Background()

	conversation, err := uc.GetOrCreateConversation(ctx, "u1", StartConversationInput{RecipientID: "u2"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "u1", SendMessageInput{ConversationID: conversation.ID, Content: "Hi"})
	require.NoError(t, err)

	require.NoError(t, uc.MarkMessagesAsRead(ctx, "u2", conversation.ID))

	stored := conversationRepo.conversations[conversation.ID]
	assert.Equal(t, 0, stored.UnreadFor("u2"))

	messages, err := uc.GetConversationMessages(ctx, "u2", conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].Read)
}

func TestGetTotalUnreadCountAggregates(t *testing.T) {
	uc, _, _ := newChatFixture(t)
	ctx := context.Background()

	c1, err := uc.GetOrCreateConversation(ctx, "u1", StartConversationInput{RecipientID: "u2"})
	require.NoError(t, err)
	c2, err := uc.GetOrCreateConversation(ctx, "u3", StartConversationInput{RecipientID: "u2"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "u1", SendMessageInput{ConversationID: c1.ID, Content: "one"})
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, "u1", SendMessageInput{ConversationID: c1.ID, Content: "two"})
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, "u3", SendMessageInput{ConversationID: c2.ID, Content: "three"})
	require.NoError(t, err)

	total, err := uc.GetTotalUnreadCount(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	// Reading one conversation only drops that conversation's share.
	require.NoError(t, uc.MarkMessagesAsRead(ctx, "u2", c1.ID))
	total, err = uc.GetTotalUnreadCount(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestDeleteConversationCascadesToMessages(t *testing.T) {
	uc, conversationRepo, _ := newChatFixture(t)
	ctx := context.Background()

	conversation, err := uc.GetOrCreateConversation(ctx, "u1", StartConversationInput{RecipientID: "u2"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "u1", SendMessageInput{ConversationID: conversation.ID, Content: "Hi"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteConversation(ctx, "u2", conversation.ID))

	assert.Empty(t, conversationRepo.conversations)
	assert.Empty(t, conversationRepo.messages)
}

func TestDeleteConversationRequiresParticipant(t *testing.T) {
	uc, _, _ := newChatFixture(t)
	ctx := context.Background()

	conversation, err := uc.GetOrCreateConversation(ctx, "u1", StartConversationInput{RecipientID: "u2"})
	require.NoError(t, err)

	err = uc.DeleteConversation(ctx, "u3", conversation.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSubscribeToMessagesRequiresParticipant(t *testing.T) {
	uc, _, _ := newChatFixture(t)
	ctx := context.Background()

	conversation, err := uc.GetOrCreateConversation(ctx, "u1", StartConversationInput{RecipientID: "u2"})
	require.NoError(t, err)

	_, err = uc.SubscribeToMessages(ctx, "u3", conversation.ID, func([]*entity.Message) {})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
