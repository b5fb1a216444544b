package repository

import (
	"context"

	"lendly/internal/domain/entity"
)

type RequestRepository interface {
	Create(ctx context.Context, request *entity.BorrowRequest) error
	GetByID(ctx context.Context, id string) (*entity.BorrowRequest, error)
	// ListForUser returns the union of requests where the user is owner or
	// borrower, de-duplicated by id.
	ListForUser(ctx context.Context, userID string) ([]*entity.BorrowRequest, error)
	// Approve transitions pending -> approved, storing the delivery message
	// and payment flag. The transition is conditional: it fails with a
	// conflict if the request is no longer pending, and returns the request
	// as it was inside the transaction so callers can apply side effects.
	Approve(ctx context.Context, id, deliveryMessage string, paymentRequired bool) (*entity.BorrowRequest, error)
	// Reject transitions pending -> rejected under the same guard.
	Reject(ctx context.Context, id string) (*entity.BorrowRequest, error)
}
