package router

import (
	"github.com/labstack/echo/v4"

	"lendly/internal/adapter/api/handler"
	"lendly/internal/adapter/api/middleware"
)

func SetupItemRouter(e *echo.Echo, itemHandler *handler.ItemHandler, authMiddleware *middleware.AuthMiddleware) {
	// Browsing is public; everything else requires authentication.
	e.GET("/v1/items", itemHandler.List)
	e.GET("/v1/items/:id", itemHandler.GetByID)

	items := e.Group("/v1/items")
	items.Use(authMiddleware.Authenticate)

	items.POST("", itemHandler.Create)
	items.PATCH("/:id", itemHandler.Update)
	items.PUT("/:id/availability", itemHandler.SetAvailability)
	items.DELETE("/:id", itemHandler.Delete)

	mine := e.Group("/v1/users/me/items")
	mine.Use(authMiddleware.Authenticate)
	mine.GET("", itemHandler.ListMine)
}
