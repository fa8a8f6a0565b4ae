package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentshore/rentshore_backend/controllers"
	"github.com/rentshore/rentshore_backend/middleware"
)

// RegisterNotificationRoutes sets up the in-app notification routes
func RegisterNotificationRoutes(e *echo.Echo, db *mongo.Client) {
	notificationController := controllers.NewNotificationController(db)

	protected := e.Group("/api/notifications")
	protected.Use(middleware.JWTMiddleware())
	protected.GET("", notificationController.GetNotifications)
	protected.PUT("/:id/read", notificationController.MarkAsRead)
	protected.PUT("/read-all", notificationController.MarkAllAsRead)
}
