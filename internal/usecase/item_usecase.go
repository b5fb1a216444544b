package usecase

import (
	"context"

	"lendly/internal/domain/entity"
	"lendly/internal/domain/repository"
	"lendly/pkg/errors"
)

type ItemUseCase struct {
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
}

func NewItemUseCase(itemRepo repository.ItemRepository, userRepo repository.UserRepository) *ItemUseCase {
	return &ItemUseCase{
		itemRepo: itemRepo,
		userRepo: userRepo,
	}
}

type CreateItemInput struct {
	Title       string   `json:"title" validate:"required,min=2,max=200"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	Category    string   `json:"category" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	ImageURLs   []string `json:"image_urls" validate:"omitempty,dive,url"`
}

type UpdateItemInput struct {
	Title       string   `json:"title" validate:"omitempty,min=2,max=200"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	Category    string   `json:"category"`
	Price       float64  `json:"price" validate:"gte=0"`
	ImageURLs   []string `json:"image_urls" validate:"omitempty,dive,url"`
}

func (uc *ItemUseCase) Create(ctx context.Context, ownerID string, input CreateItemInput) (*entity.Item, error) {
	owner, err := uc.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	item := &entity.Item{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		OwnerID:     owner.ID,
		OwnerName:   owner.DisplayName,
		Available:   true,
		ImageURLs:   input.ImageURLs,
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return uc.itemRepo.GetByID(ctx, id)
}

func (uc *ItemUseCase) List(ctx context.Context, category string, limit, offset int) ([]*entity.Item, int64, error) {
	return uc.itemRepo.List(ctx, category, limit, offset)
}

func (uc *ItemUseCase) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Item, error) {
	return uc.itemRepo.ListByOwner(ctx, ownerID)
}

func (uc *ItemUseCase) Update(ctx context.Context, userID, itemID string, input UpdateItemInput) (*entity.Item, error) {
	item, err := uc.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		item.Title = input.Title
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.Category != "" {
		item.Category = input.Category
	}
	if input.Price > 0 {
		item.Price = input.Price
	}
	if input.ImageURLs != nil {
		item.ImageURLs = input.ImageURLs
	}

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// SetAvailability is the owner-facing toggle. Approval-driven flips go
// through the request lifecycle instead.
func (uc *ItemUseCase) SetAvailability(ctx context.Context, userID, itemID string, available bool) error {
	if _, err := uc.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}

	return uc.itemRepo.SetAvailability(ctx, itemID, available)
}

func (uc *ItemUseCase) Delete(ctx context.Context, userID, itemID string) error {
	if _, err := uc.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}

	return uc.itemRepo.Delete(ctx, itemID)
}

func (uc *ItemUseCase) ownedItem(ctx context.Context, userID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID != userID {
		return nil, errors.Forbidden("You don't own this item", nil)
	}

	return item, nil
}
