package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentshore/rentshore_backend/controllers"
	"github.com/rentshore/rentshore_backend/middleware"
	"github.com/rentshore/rentshore_backend/models"
)

// RegisterPropertyRoutes sets up public listing search and owner listing management
func RegisterPropertyRoutes(e *echo.Echo, db *mongo.Client) {
	propertyController := controllers.NewPropertyController(db)

	// Public browsing
	e.GET("/api/properties/search", propertyController.SearchProperties)
	e.GET("/api/properties/:id", propertyController.GetProperty)

	// Owner listing management
	owner := e.Group("/api/properties")
	owner.Use(middleware.JWTMiddleware())
	owner.Use(middleware.RequireUserType(models.UserTypeOwner))
	owner.POST("", propertyController.CreateProperty)
	owner.GET("/mine", propertyController.GetMyProperties)
	owner.PUT("/:id", propertyController.UpdateProperty)
	owner.DELETE("/:id", propertyController.DeleteProperty)
}
