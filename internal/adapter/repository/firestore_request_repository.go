package repository

import (
	"context"
	stderrors "errors"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lendly/internal/domain/entity"
	"lendly/internal/domain/repository"
	"lendly/pkg/errors"
	"lendly/pkg/logger"
)

type firestoreRequestRepository struct {
	client *firestore.Client
}

func NewFirestoreRequestRepository(client *firestore.Client) repository.RequestRepository {
	return &firestoreRequestRepository{
		client: client,
	}
}

func (r *firestoreRequestRepository) Create(ctx context.Context, request *entity.BorrowRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}

	_, err := r.client.Collection("borrowRequests").Doc(request.ID).Set(ctx, request)
	if err != nil {
		return storeError("Failed to create borrow request", err)
	}

	return nil
}

func (r *firestoreRequestRepository) GetByID(ctx context.Context, id string) (*entity.BorrowRequest, error) {
	doc, err := r.client.Collection("borrowRequests").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Borrow request", err)
		}
		return nil, storeError("Failed to get borrow request", err)
	}

	var request entity.BorrowRequest
	if err := doc.DataTo(&request); err != nil {
		return nil, errors.Internal("Failed to parse borrow request data", err)
	}
	request.ID = doc.Ref.ID

	return &request, nil
}

func (r *firestoreRequestRepository) ListForUser(ctx context.Context, userID string) ([]*entity.BorrowRequest, error) {
	requestsRef := r.client.Collection("borrowRequests")

	ownerDocs, err := requestsRef.Where("ownerId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, storeError("Failed to fetch incoming requests", err)
	}
	borrowerDocs, err := requestsRef.Where("borrowerId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, storeError("Failed to fetch outgoing requests", err)
	}

	// A user who is both owner and borrower of the same request must not
	// see duplicates.
	seen := make(map[string]bool)
	var requests []*entity.BorrowRequest
	for _, doc := range append(ownerDocs, borrowerDocs...) {
		if seen[doc.Ref.ID] {
			continue
		}
		seen[doc.Ref.ID] = true

		var request entity.BorrowRequest
		if err := doc.DataTo(&request); err != nil {
			logger.Warn("Skipping malformed request document %s: %v", doc.Ref.ID, err)
			continue
		}
		request.ID = doc.Ref.ID
		requests = append(requests, &request)
	}

	return requests, nil
}

func (r *firestoreRequestRepository) Approve(ctx context.Context, id, deliveryMessage string, paymentRequired bool) (*entity.BorrowRequest, error) {
	return r.transition(ctx, id, entity.RequestStatusApproved, deliveryMessage, paymentRequired)
}

func (r *firestoreRequestRepository) Reject(ctx context.Context, id string) (*entity.BorrowRequest, error) {
	return r.transition(ctx, id, entity.RequestStatusRejected, "", false)
}

// transition moves a pending request to a terminal status inside a
// transaction. The status check inside the transaction is what prevents a
// double approval from flipping item availability twice.
func (r *firestoreRequestRepository) transition(ctx context.Context, id, next string, deliveryMessage string, paymentRequired bool) (*entity.BorrowRequest, error) {
	docRef := r.client.Collection("borrowRequests").Doc(id)

	var request entity.BorrowRequest
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Borrow request", err)
			}
			return err
		}

		if err := doc.DataTo(&request); err != nil {
			return errors.Internal("Failed to parse borrow request data", err)
		}
		request.ID = doc.Ref.ID

		if request.Status != entity.RequestStatusPending {
			return errors.Conflict("Request is already " + request.Status)
		}

		updates := []firestore.Update{
			{Path: "status", Value: next},
		}
		if next == entity.RequestStatusApproved {
			updates = append(updates,
				firestore.Update{Path: "deliveryMessage", Value: deliveryMessage},
				firestore.Update{Path: "paymentRequired", Value: paymentRequired},
			)
			request.DeliveryMessage = deliveryMessage
			request.PaymentRequired = paymentRequired
		}
		request.Status = next

		return tx.Update(docRef, updates)
	})
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return nil, err
		}
		logger.Error("Request transition failed for %s: %v", id, err)
		return nil, storeError("Failed to update borrow request", err)
	}

	return &request, nil
}
