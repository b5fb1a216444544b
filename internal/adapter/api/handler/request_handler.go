package handler

import (
	"sort"

	"github.com/labstack/echo/v4"

	"lendly/internal/domain/entity"
	"lendly/internal/usecase"
	"lendly/pkg/response"
)

type RequestHandler struct {
	requestUseCase *usecase.RequestUseCase
}

func NewRequestHandler(requestUseCase *usecase.RequestUseCase) *RequestHandler {
	return &RequestHandler{
		requestUseCase: requestUseCase,
	}
}

type approveRequestBody struct {
	DeliveryLocation string `json:"delivery_location" validate:"required"`
	DeliveryDateTime string `json:"delivery_date_time" validate:"required"`
	AdditionalInfo   string `json:"additional_info"`
	PaymentRequired  bool   `json:"payment_required"`
}

type requestListResponse struct {
	Incoming []*entity.BorrowRequest `json:"incoming"`
	Outgoing []*entity.BorrowRequest `json:"outgoing"`
}

func (h *RequestHandler) Create(c echo.Context) error {
	var req usecase.CreateRequestInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	request, err := h.requestUseCase.Create(c.Request().Context(), userID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, request)
}

// List splits the caller's requests into incoming (they own the item) and
// outgoing (they are the borrower), newest first within each bucket.
func (h *RequestHandler) List(c echo.Context) error {
	userID := c.Get("uid").(string)

	requests, err := h.requestUseCase.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	result := requestListResponse{
		Incoming: []*entity.BorrowRequest{},
		Outgoing: []*entity.BorrowRequest{},
	}
	for _, request := range requests {
		if request.OwnerID == userID {
			result.Incoming = append(result.Incoming, request)
		}
		if request.BorrowerID == userID {
			result.Outgoing = append(result.Outgoing, request)
		}
	}

	byNewest := func(requests []*entity.BorrowRequest) {
		sort.Slice(requests, func(i, j int) bool {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		})
	}
	byNewest(result.Incoming)
	byNewest(result.Outgoing)

	return response.Success(c, result)
}

func (h *RequestHandler) Approve(c echo.Context) error {
	var req approveRequestBody
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	request, err := h.requestUseCase.Approve(c.Request().Context(), userID, usecase.ApproveRequestInput{
		RequestID:        c.Param("id"),
		DeliveryLocation: req.DeliveryLocation,
		DeliveryDateTime: req.DeliveryDateTime,
		AdditionalInfo:   req.AdditionalInfo,
		PaymentRequired:  req.PaymentRequired,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}

func (h *RequestHandler) Reject(c echo.Context) error {
	userID := c.Get("uid").(string)

	request, err := h.requestUseCase.Reject(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}
