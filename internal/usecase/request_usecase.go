package usecase

import (
	"context"
	"fmt"

	"lendly/internal/domain/entity"
	"lendly/internal/domain/repository"
	"lendly/internal/infrastructure/metrics"
	"lendly/internal/infrastructure/ratelimit"
	ws "lendly/internal/infrastructure/websocket"
	"lendly/pkg/errors"
	"lendly/pkg/logger"
)

type RequestUseCase struct {
	requestRepo repository.RequestRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewRequestUseCase(
	requestRepo repository.RequestRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	wsManager *ws.Manager,
	rateLimiter *ratelimit.RateLimiter,
) *RequestUseCase {
	return &RequestUseCase{
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type SwapOfferInput struct {
	ItemID   string `json:"item_id" validate:"required"`
	Duration int    `json:"duration" validate:"required,gt=0"` // days
}

type CreateRequestInput struct {
	ItemID string          `json:"item_id" validate:"required"`
	Swap   *SwapOfferInput `json:"swap"`
}

type ApproveRequestInput struct {
	RequestID        string `json:"request_id" validate:"required"`
	DeliveryLocation string `json:"delivery_location" validate:"required"`
	DeliveryDateTime string `json:"delivery_date_time" validate:"required"`
	AdditionalInfo   string `json:"additional_info"`
	PaymentRequired  bool   `json:"payment_required"`
}

// Create files a pending borrow or swap request against an available item.
func (uc *RequestUseCase) Create(ctx context.Context, borrowerID string, input CreateRequestInput) (*entity.BorrowRequest, error) {
	if !uc.rateLimiter.Allow(borrowerID, ratelimit.ActionCreateRequest) {
		metrics.RateLimited.WithLabelValues(ratelimit.ActionCreateRequest).Inc()
		return nil, errors.TooManyRequests("Too many requests. Please wait before creating another")
	}

	item, err := uc.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == borrowerID {
		return nil, errors.BadRequest("You cannot request your own item", nil)
	}
	if !item.Available {
		return nil, errors.BadRequest("Item is not available", nil)
	}

	borrower, err := uc.userRepo.GetByID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}

	request := &entity.BorrowRequest{
		ItemID:       item.ID,
		ItemTitle:    item.Title,
		BorrowerID:   borrower.ID,
		BorrowerName: borrower.DisplayName,
		OwnerID:      item.OwnerID,
		OwnerName:    item.OwnerName,
		Status:       entity.RequestStatusPending,
	}

	kind := "borrow"
	if input.Swap != nil {
		swapItem, err := uc.itemRepo.GetByID(ctx, input.Swap.ItemID)
		if err != nil {
			return nil, err
		}
		if swapItem.OwnerID != borrowerID {
			return nil, errors.BadRequest("The offered swap item does not belong to you", nil)
		}
		if !swapItem.Available {
			return nil, errors.BadRequest("The offered swap item is not available", nil)
		}
		if input.Swap.Duration <= 0 {
			return nil, errors.BadRequest("Swap duration must be a positive number of days", nil)
		}

		request.Swap = &entity.SwapOffer{
			ItemID:    swapItem.ID,
			ItemTitle: swapItem.Title,
			Duration:  input.Swap.Duration,
		}
		kind = "swap"
	}

	if err := uc.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	metrics.RequestsCreated.WithLabelValues(kind).Inc()
	uc.wsManager.SendEvent(request.OwnerID, ws.EventRequestCreated, request)

	return request, nil
}

// Approve transitions a pending request to approved and flips the item
// availability side effects. Only the item owner may approve; a terminal
// request yields a conflict.
func (uc *RequestUseCase) Approve(ctx context.Context, userID string, input ApproveRequestInput) (*entity.BorrowRequest, error) {
	request, err := uc.requestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if request.OwnerID != userID {
		return nil, errors.Forbidden("Only the item owner can approve this request", nil)
	}

	deliveryMessage := fmt.Sprintf("I will deliver at %s on %s.", input.DeliveryLocation, input.DeliveryDateTime)
	if input.AdditionalInfo != "" {
		deliveryMessage += "\n\nAdditional information: " + input.AdditionalInfo
	}

	// Payment on delivery has no meaning for an item-for-item swap.
	paymentRequired := input.PaymentRequired
	if request.IsSwap() {
		paymentRequired = false
	}

	approved, err := uc.requestRepo.Approve(ctx, input.RequestID, deliveryMessage, paymentRequired)
	if err != nil {
		return nil, err
	}

	if err := uc.itemRepo.SetAvailability(ctx, approved.ItemID, false); err != nil {
		logger.Error("Approved request %s but failed to mark item %s unavailable: %v", approved.ID, approved.ItemID, err)
		return nil, err
	}
	if approved.IsSwap() {
		if err := uc.itemRepo.SetAvailability(ctx, approved.Swap.ItemID, false); err != nil {
			logger.Error("Approved swap %s but failed to mark swap item %s unavailable: %v", approved.ID, approved.Swap.ItemID, err)
			return nil, err
		}
	}

	metrics.RequestsResolved.WithLabelValues(entity.RequestStatusApproved).Inc()

	uc.wsManager.SendEvent(approved.BorrowerID, ws.EventRequestApproved, approved)
	if approved.IsSwap() {
		uc.wsManager.SendEvent(approved.BorrowerID, ws.EventSwapApproved, approved)
		uc.wsManager.SendEvent(approved.OwnerID, ws.EventSwapApproved, approved)
	}

	return approved, nil
}

// Reject transitions a pending request to rejected. No availability side
// effect.
func (uc *RequestUseCase) Reject(ctx context.Context, userID, requestID string) (*entity.BorrowRequest, error) {
	request, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.OwnerID != userID {
		return nil, errors.Forbidden("Only the item owner can reject this request", nil)
	}

	rejected, err := uc.requestRepo.Reject(ctx, requestID)
	if err != nil {
		return nil, err
	}

	metrics.RequestsResolved.WithLabelValues(entity.RequestStatusRejected).Inc()
	uc.wsManager.SendEvent(rejected.BorrowerID, ws.EventRequestRejected, rejected)

	return rejected, nil
}

// ListForUser returns every request where the user is owner or borrower.
func (uc *RequestUseCase) ListForUser(ctx context.Context, userID string) ([]*entity.BorrowRequest, error) {
	return uc.requestRepo.ListForUser(ctx, userID)
}
