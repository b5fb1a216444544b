package router

import (
	"github.com/labstack/echo/v4"

	"lendly/internal/adapter/api/handler"
	"lendly/internal/adapter/api/middleware"
)

func SetupRequestRouter(e *echo.Echo, requestHandler *handler.RequestHandler, authMiddleware *middleware.AuthMiddleware) {
	requests := e.Group("/v1/requests")
	requests.Use(authMiddleware.Authenticate)

	requests.POST("", requestHandler.Create)
	requests.GET("", requestHandler.List)
	requests.POST("/:id/approve", requestHandler.Approve)
	requests.POST("/:id/reject", requestHandler.Reject)
}
