package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lendly/internal/domain/entity"
	"lendly/internal/domain/repository"
	"lendly/pkg/errors"
	"lendly/pkg/logger"
)

type firestoreItemRepository struct {
	client *firestore.Client
}

func NewFirestoreItemRepository(client *firestore.Client) repository.ItemRepository {
	return &firestoreItemRepository{
		client: client,
	}
}

func (r *firestoreItemRepository) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := r.client.Collection("items").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return storeError("Failed to create item", err)
	}

	return nil
}

func (r *firestoreItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	doc, err := r.client.Collection("items").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Item", err)
		}
		return nil, storeError("Failed to get item", err)
	}

	var item entity.Item
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse item data", err)
	}
	item.ID = doc.Ref.ID

	return &item, nil
}

func (r *firestoreItemRepository) List(ctx context.Context, category string, limit, offset int) ([]*entity.Item, int64, error) {
	query := r.client.Collection("items").Query
	if category != "" {
		query = query.Where("category", "==", category)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, storeError("Failed to fetch items", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var items []*entity.Item

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, storeError("Failed to iterate items", err)
		}

		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			logger.Warn("Skipping malformed item document %s: %v", doc.Ref.ID, err)
			continue
		}
		item.ID = doc.Ref.ID
		items = append(items, &item)
	}

	return items, total, nil
}

func (r *firestoreItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Item, error) {
	docs, err := r.client.Collection("items").Where("ownerId", "==", ownerID).Documents(ctx).GetAll()
	if err != nil {
		return nil, storeError("Failed to fetch owner items", err)
	}

	var items []*entity.Item
	for _, doc := range docs {
		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			logger.Warn("Skipping malformed item document %s: %v", doc.Ref.ID, err)
			continue
		}
		item.ID = doc.Ref.ID
		items = append(items, &item)
	}

	return items, nil
}

func (r *firestoreItemRepository) Update(ctx context.Context, item *entity.Item) error {
	_, err := r.client.Collection("items").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return storeError("Failed to update item", err)
	}

	return nil
}

func (r *firestoreItemRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	_, err := r.client.Collection("items").Doc(id).Update(ctx, []firestore.Update{
		{Path: "available", Value: available},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Item", err)
		}
		return storeError("Failed to update item availability", err)
	}

	return nil
}

func (r *firestoreItemRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("items").Doc(id).Delete(ctx)
	if err != nil {
		return storeError("Failed to delete item", err)
	}

	return nil
}
