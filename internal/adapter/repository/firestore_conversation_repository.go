package repository

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lendly/internal/domain/entity"
	"lendly/internal/domain/repository"
	"lendly/pkg/errors"
	"lendly/pkg/logger"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}

	_, err := r.client.Collection("conversations").Doc(conversation.ID).Set(ctx, conversation)
	if err != nil {
		return storeError("Failed to create conversation", err)
	}

	return nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, storeError("Failed to get conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	conversation.ID = doc.Ref.ID

	return &conversation, nil
}

func (r *firestoreConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	docs, err := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, storeError("Failed to fetch conversations", err)
	}

	return conversationsFromDocs(docs), nil
}

func (r *firestoreConversationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("conversations").Doc(id).Delete(ctx)
	if err != nil {
		return storeError("Failed to delete conversation", err)
	}

	return nil
}

func (r *firestoreConversationRepository) RecordMessageSent(ctx context.Context, conversation *entity.Conversation, snapshot *entity.MessageSnapshot) error {
	updates := []firestore.Update{
		{Path: "lastMessage", Value: snapshot},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	for _, participantID := range conversation.Participants {
		if participantID != snapshot.SenderID {
			updates = append(updates, firestore.Update{
				FieldPath: firestore.FieldPath{"unreadCount", participantID},
				Value:     firestore.Increment(1),
			})
		}
	}

	_, err := r.client.Collection("conversations").Doc(conversation.ID).Update(ctx, updates)
	if err != nil {
		return storeError("Failed to update conversation after send", err)
	}

	return nil
}

func (r *firestoreConversationRepository) ClearUnread(ctx context.Context, conversationID, userID string) error {
	_, err := r.client.Collection("conversations").Doc(conversationID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unreadCount", userID}, Value: 0},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Conversation", err)
		}
		return storeError("Failed to clear unread count", err)
	}

	return nil
}

func (r *firestoreConversationRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return storeError("Failed to create message", err)
	}

	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	docs, err := r.client.Collection("messages").
		Where("conversationId", "==", conversationID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, storeError("Failed to fetch messages", err)
	}

	return messagesFromDocs(docs), nil
}

func (r *firestoreConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	// The sender's own messages are filtered client-side.
	docs, err := r.client.Collection("messages").
		Where("conversationId", "==", conversationID).
		Where("read", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return storeError("Failed to fetch unread messages", err)
	}

	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("Skipping malformed message document %s: %v", doc.Ref.ID, err)
			continue
		}
		if message.SenderID == readerID {
			continue
		}

		if _, err := doc.Ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}}); err != nil {
			return storeError("Failed to mark message as read", err)
		}
	}

	return nil
}

func (r *firestoreConversationRepository) DeleteMessages(ctx context.Context, conversationID string) error {
	docs, err := r.client.Collection("messages").
		Where("conversationId", "==", conversationID).
		Documents(ctx).GetAll()
	if err != nil {
		return storeError("Failed to fetch conversation messages", err)
	}

	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return storeError("Failed to delete message", err)
		}
	}

	return nil
}

// snapshotSubscription adapts a Firestore snapshot iterator to the
// repository.Subscription contract. Stop is idempotent.
type snapshotSubscription struct {
	cancel context.CancelFunc
	once   sync.Once
}

func (s *snapshotSubscription) Stop() {
	s.once.Do(s.cancel)
}

func (r *firestoreConversationRepository) SubscribeToConversations(ctx context.Context, userID string, fn func([]*entity.Conversation)) (repository.Subscription, error) {
	query := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc)

	ctx, cancel := context.WithCancel(ctx)
	sub := &snapshotSubscription{cancel: cancel}

	go func() {
		iter := query.Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Conversation listener for user %s stopped: %v", userID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("Conversation listener for user %s failed to read snapshot: %v", userID, err)
				continue
			}

			fn(conversationsFromDocs(docs))
		}
	}()

	return sub, nil
}

func (r *firestoreConversationRepository) SubscribeToMessages(ctx context.Context, conversationID string, fn func([]*entity.Message)) (repository.Subscription, error) {
	query := r.client.Collection("messages").
		Where("conversationId", "==", conversationID).
		OrderBy("createdAt", firestore.Asc)

	ctx, cancel := context.WithCancel(ctx)
	sub := &snapshotSubscription{cancel: cancel}

	go func() {
		iter := query.Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Message listener for conversation %s stopped: %v", conversationID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("Message listener for conversation %s failed to read snapshot: %v", conversationID, err)
				continue
			}

			fn(messagesFromDocs(docs))
		}
	}()

	return sub, nil
}

func conversationsFromDocs(docs []*firestore.DocumentSnapshot) []*entity.Conversation {
	var conversations []*entity.Conversation
	for _, doc := range docs {
		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			logger.Warn("Skipping malformed conversation document %s: %v", doc.Ref.ID, err)
			continue
		}
		conversation.ID = doc.Ref.ID
		conversations = append(conversations, &conversation)
	}
	return conversations
}

func messagesFromDocs(docs []*firestore.DocumentSnapshot) []*entity.Message {
	var messages []*entity.Message
	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("Skipping malformed message document %s: %v", doc.Ref.ID, err)
			continue
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}
	return messages
}
