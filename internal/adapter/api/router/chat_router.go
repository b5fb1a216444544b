package router

import (
	"github.com/labstack/echo/v4"

	"lendly/internal/adapter/api/handler"
	"lendly/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)

	conversations.POST("", chatHandler.StartConversation)
	conversations.GET("", chatHandler.GetUserConversations)
	conversations.GET("/unread-count", chatHandler.GetUnreadCount)
	conversations.GET("/:id/messages", chatHandler.GetMessages)
	conversations.POST("/:id/messages", chatHandler.SendMessage)
	conversations.PUT("/:id/read", chatHandler.MarkAsRead)
	conversations.DELETE("/:id", chatHandler.DeleteConversation)
}
