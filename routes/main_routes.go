package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentshore/rentshore_backend/controllers"
	"github.com/rentshore/rentshore_backend/middleware"
	"github.com/rentshore/rentshore_backend/models"
	"github.com/rentshore/rentshore_backend/services"
	"github.com/rentshore/rentshore_backend/websocket"
)

// RegisterAllRoutes wires every route group plus the websocket and health
// endpoints
func RegisterAllRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub, commissions *services.CommissionService) {
	RegisterAuthRoutes(e, db)
	RegisterPropertyRoutes(e, db)
	RegisterBookingRoutes(e, db, hub, commissions)
	RegisterAdminRoutes(e, db, commissions)
	RegisterNotificationRoutes(e, db)

	pageController := controllers.NewPageController(db)
	e.GET("/api/pages/:slug", pageController.GetPageBySlug)

	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "OK",
		})
	})

	// Clients may connect with ?token=<jwt> or authenticate afterwards by
	// sending "AUTH:<jwt>" over the socket
	e.GET("/ws", func(c echo.Context) error {
		userID := primitive.NilObjectID
		userType := ""
		if token := c.QueryParam("token"); token != "" {
			if claims, err := middleware.ParseToken(token); err == nil {
				if id, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
					userID = id
					userType = claims.UserType
				}
			}
		}
		return websocket.HandleWebSocket(c, hub, userID, userType)
	})

	// Uploaded media (property photos, thumbnails, videos)
	e.Static("/uploads", "uploads")
}
