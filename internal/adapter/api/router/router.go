package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lendly/internal/adapter/api/handler"
	"lendly/internal/adapter/api/middleware"
)

type Handlers struct {
	User      *handler.UserHandler
	Item      *handler.ItemHandler
	Request   *handler.RequestHandler
	Chat      *handler.ChatHandler
	WebSocket *handler.WebSocketHandler
	Health    *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	SetupHealthRouter(e, h.Health)
	SetupUserRouter(e, h.User, authMiddleware)
	SetupItemRouter(e, h.Item, authMiddleware)
	SetupRequestRouter(e, h.Request, authMiddleware)
	SetupChatRouter(e, h.Chat, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
