package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"lendly/internal/domain/entity"
	"lendly/internal/domain/repository"
	"lendly/pkg/errors"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	r.users[user.ID] = user
	return nil
}

type fakeItemRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*entity.Item
}

func newFakeItemRepo(items ...*entity.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[string]*entity.Item)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeItemRepo) Create(ctx context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		r.seq++
		item.ID = fmt.Sprintf("item-%d", r.seq)
	}
	item.CreatedAt = time.Now()
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Item", nil)
	}
	return item, nil
}

func (r *fakeItemRepo) List(ctx context.Context, category string, limit, offset int) ([]*entity.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*entity.Item
	for _, item := range r.items {
		if category == "" || item.Category == category {
			items = append(items, item)
		}
	}
	total := int64(len(items))
	if offset >= len(items) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total, nil
}

func (r *fakeItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*entity.Item
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return errors.NotFound("Item", nil)
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return errors.NotFound("Item", nil)
	}
	item.Available = available
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	seq      int
	requests map[string]*entity.BorrowRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*entity.BorrowRequest)}
}

func (r *fakeRequestRepo) Create(ctx context.Context, request *entity.BorrowRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request.ID == "" {
		r.seq++
		request.ID = fmt.Sprintf("req-%d", r.seq)
	}
	request.CreatedAt = time.Now()
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (*entity.BorrowRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, errors.NotFound("Request", nil)
	}
	return request, nil
}

func (r *fakeRequestRepo) ListForUser(ctx context.Context, userID string) ([]*entity.BorrowRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var requests []*entity.BorrowRequest
	for _, request := range r.requests {
		if request.OwnerID == userID || request.BorrowerID == userID {
			requests = append(requests, request)
		}
	}
	return requests, nil
}

func (r *fakeRequestRepo) Approve(ctx context.Context, id, deliveryMessage string, paymentRequired bool) (*entity.BorrowRequest, error) {
	return r.transition(id, entity.RequestStatusApproved, deliveryMessage, paymentRequired)
}

func (r *fakeRequestRepo) Reject(ctx context.Context, id string) (*entity.BorrowRequest, error) {
	return r.transition(id, entity.RequestStatusRejected, "", false)
}

func (r *fakeRequestRepo) transition(id, next, deliveryMessage string, paymentRequired bool) (*entity.BorrowRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, errors.NotFound("Request", nil)
	}
	if request.Status != entity.RequestStatusPending {
		return nil, errors.Conflict("Request is already " + request.Status)
	}
	request.Status = next
	if next == entity.RequestStatusApproved {
		request.DeliveryMessage = deliveryMessage
		request.PaymentRequired = paymentRequired
	}
	return request, nil
}

type fakeSubscription struct {
	mu      sync.Mutex
	stopped int
}

func (s *fakeSubscription) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
}

func (s *fakeSubscription) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	seq           int
	conversations map[string]*entity.Conversation
	messages      map[string]*entity.Message

	convSubs map[string][]func([]*entity.Conversation)
	msgSubs  map[string][]func([]*entity.Message)
	subs     []*fakeSubscription
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string]*entity.Message),
		convSubs:      make(map[string][]func([]*entity.Conversation)),
		msgSubs:       make(map[string][]func([]*entity.Message)),
	}
}

func (r *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conversation.ID == "" {
		r.seq++
		conversation.ID = fmt.Sprintf("conv-%d", r.seq)
	}
	conversation.CreatedAt = time.Now()
	conversation.UpdatedAt = time.Now()
	r.conversations[conversation.ID] = conversation
	return nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conversation, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return conversation, nil
}

func (r *fakeConversationRepo) ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listByParticipantLocked(userID), nil
}

func (r *fakeConversationRepo) listByParticipantLocked(userID string) []*entity.Conversation {
	var conversations []*entity.Conversation
	for _, conversation := range r.conversations {
		if conversation.HasParticipant(userID) {
			conversations = append(conversations, conversation)
		}
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})
	return conversations
}

func (r *fakeConversationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conversations, id)
	return nil
}

func (r *fakeConversationRepo) RecordMessageSent(ctx context.Context, conversation *entity.Conversation, snapshot *entity.MessageSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.conversations[conversation.ID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	snapshot.CreatedAt = time.Now()
	stored.LastMessage = snapshot
	stored.UpdatedAt = time.Now()
	if stored.UnreadCount == nil {
		stored.UnreadCount = make(map[string]int)
	}
	for _, participantID := range stored.Participants {
		if participantID != snapshot.SenderID {
			stored.UnreadCount[participantID]++
		}
	}
	return nil
}

func (r *fakeConversationRepo) ClearUnread(ctx context.Context, conversationID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conversation, ok := r.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	if conversation.UnreadCount == nil {
		conversation.UnreadCount = make(map[string]int)
	}
	conversation.UnreadCount[userID] = 0
	return nil
}

func (r *fakeConversationRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		r.seq++
		message.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	message.CreatedAt = time.Now()
	r.messages[message.ID] = message
	return nil
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listMessagesLocked(conversationID), nil
}

func (r *fakeConversationRepo) listMessagesLocked(conversationID string) []*entity.Message {
	var messages []*entity.Message
	for _, message := range r.messages {
		if message.ConversationID == conversationID {
			messages = append(messages, message)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages
}

func (r *fakeConversationRepo) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, message := range r.messages {
		if message.ConversationID == conversationID && message.SenderID != readerID {
			message.Read = true
		}
	}
	return nil
}

func (r *fakeConversationRepo) DeleteMessages(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, message := range r.messages {
		if message.ConversationID == conversationID {
			delete(r.messages, id)
		}
	}
	return nil
}

func (r *fakeConversationRepo) SubscribeToConversations(ctx context.Context, userID string, fn func([]*entity.Conversation)) (repository.Subscription, error) {
	sub := &fakeSubscription{}

	r.mu.Lock()
	r.convSubs[userID] = append(r.convSubs[userID], fn)
	r.subs = append(r.subs, sub)
	initial := r.listByParticipantLocked(userID)
	r.mu.Unlock()

	fn(initial)
	return sub, nil
}

func (r *fakeConversationRepo) SubscribeToMessages(ctx context.Context, conversationID string, fn func([]*entity.Message)) (repository.Subscription, error) {
	sub := &fakeSubscription{}

	r.mu.Lock()
	r.msgSubs[conversationID] = append(r.msgSubs[conversationID], fn)
	r.subs = append(r.subs, sub)
	initial := r.listMessagesLocked(conversationID)
	r.mu.Unlock()

	fn(initial)
	return sub, nil
}

// pushConversations simulates a snapshot delivery to every conversation
// subscriber for userID.
func (r *fakeConversationRepo) pushConversations(userID string) {
	r.mu.Lock()
	fns := r.convSubs[userID]
	snapshot := r.listByParticipantLocked(userID)
	r.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// pushMessages simulates a snapshot delivery to every message subscriber
// for conversationID.
func (r *fakeConversationRepo) pushMessages(conversationID string) {
	r.mu.Lock()
	fns := r.msgSubs[conversationID]
	snapshot := r.listMessagesLocked(conversationID)
	r.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
