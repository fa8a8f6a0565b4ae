package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentshore/rentshore_backend/controllers"
	"github.com/rentshore/rentshore_backend/middleware"
	"github.com/rentshore/rentshore_backend/models"
	"github.com/rentshore/rentshore_backend/services"
	"github.com/rentshore/rentshore_backend/websocket"
)

// RegisterBookingRoutes sets up the booking lifecycle routes
func RegisterBookingRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub, commissions *services.CommissionService) {
	bookingController := controllers.NewBookingController(db, hub, commissions)

	// Guest actions
	guest := e.Group("/api/bookings")
	guest.Use(middleware.JWTMiddleware())
	guest.Use(middleware.RequireUserType(models.UserTypeGuest))
	guest.POST("", bookingController.CreateBooking)
	guest.GET("/mine", bookingController.GetMyBookings)
	guest.POST("/:id/confirm", bookingController.ConfirmBooking)
	guest.POST("/:id/cancel", bookingController.CancelBooking)

	// Owner actions
	owner := e.Group("/api/bookings")
	owner.Use(middleware.JWTMiddleware())
	owner.Use(middleware.RequireUserType(models.UserTypeOwner))
	owner.GET("/received", bookingController.GetOwnerBookings)
	owner.POST("/:id/respond", bookingController.RespondToBooking)

	// Completion is open to the owner and to admins closing out stale stays
	complete := e.Group("/api/bookings")
	complete.Use(middleware.JWTMiddleware())
	complete.Use(middleware.RequireUserType(models.UserTypeOwner, models.UserTypeAdmin))
	complete.POST("/:id/complete", bookingController.CompleteBooking)
}
