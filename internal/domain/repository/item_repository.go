package repository

import (
	"context"

	"lendly/internal/domain/entity"
)

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, category string, limit, offset int) ([]*entity.Item, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	// SetAvailability flips only the availability flag, leaving the rest of
	// the document untouched.
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}
