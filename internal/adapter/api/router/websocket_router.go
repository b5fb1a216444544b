package router

import (
	"github.com/labstack/echo/v4"

	"lendly/internal/adapter/api/handler"
)

func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	// Token auth happens inside the handler (query parameter).
	e.GET("/v1/ws", wsHandler.HandleWebSocket)
}
