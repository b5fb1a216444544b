package handler

import (
	"github.com/labstack/echo/v4"

	"lendly/internal/usecase"
	"lendly/pkg/response"
	"lendly/pkg/utils"
)

type ItemHandler struct {
	itemUseCase *usecase.ItemUseCase
}

func NewItemHandler(itemUseCase *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{
		itemUseCase: itemUseCase,
	}
}

type setAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

func (h *ItemHandler) Create(c echo.Context) error {
	var req usecase.CreateItemInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	item, err := h.itemUseCase.Create(c.Request().Context(), userID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *ItemHandler) List(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	category := c.QueryParam("category")

	items, total, err := h.itemUseCase.List(c.Request().Context(), category, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, params.Page, params.PageSize)
}

func (h *ItemHandler) GetByID(c echo.Context) error {
	item, err := h.itemUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) ListMine(c echo.Context) error {
	userID := c.Get("uid").(string)

	items, err := h.itemUseCase.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

func (h *ItemHandler) Update(c echo.Context) error {
	var req usecase.UpdateItemInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	item, err := h.itemUseCase.Update(c.Request().Context(), userID, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) SetAvailability(c echo.Context) error {
	var req setAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.itemUseCase.SetAvailability(c.Request().Context(), userID, c.Param("id"), *req.Available); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"available": *req.Available})
}

func (h *ItemHandler) Delete(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.itemUseCase.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
