package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentshore/rentshore_backend/controllers"
	"github.com/rentshore/rentshore_backend/middleware"
	"github.com/rentshore/rentshore_backend/models"
	"github.com/rentshore/rentshore_backend/services"
)

// RegisterAdminRoutes sets up the admin dashboard routes: user management,
// listing moderation, agents, the commission ledger, content pages and
// platform settings
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, commissions *services.CommissionService) {
	adminController := controllers.NewAdminController(db)
	propertyController := controllers.NewPropertyController(db)
	agentController := controllers.NewAgentController(db)
	commissionController := controllers.NewCommissionController(db, commissions)
	pageController := controllers.NewPageController(db)
	settingsController := controllers.NewSettingsController(db)

	// Super-admin only
	superAdmin := e.Group("/api/admin")
	superAdmin.Use(middleware.JWTMiddleware())
	superAdmin.Use(middleware.RequireUserType(models.UserTypeSuperAdmin))
	superAdmin.POST("/admins", adminController.CreateAdmin)

	protected := e.Group("/api/admin")
	protected.Use(middleware.JWTMiddleware())
	protected.Use(middleware.RequireUserType(models.UserTypeAdmin))

	// User management
	protected.GET("/users", adminController.GetUsers)
	protected.PUT("/users/:id/active", adminController.SetUserActive)
	protected.GET("/stats", adminController.GetDashboardStats)

	// Listing moderation
	protected.GET("/properties/pending", propertyController.GetPendingProperties)
	protected.PUT("/properties/:id/status", propertyController.UpdatePropertyStatus)

	// Agents
	protected.POST("/agents", agentController.CreateAgent)
	protected.GET("/agents", agentController.GetAgents)
	protected.GET("/agents/:id", agentController.GetAgent)
	protected.PUT("/agents/:id", agentController.UpdateAgent)
	protected.DELETE("/agents/:id", agentController.DeleteAgent)

	// Commission ledger
	protected.GET("/commissions", commissionController.ListCommissions)
	protected.GET("/commissions/summary", commissionController.GetSummary)
	protected.GET("/commissions/export/csv", commissionController.ExportCSV)
	protected.GET("/commissions/export/pdf", commissionController.ExportPDF)
	protected.POST("/commissions/bulk-status", commissionController.BulkUpdateStatus)
	protected.GET("/commissions/:id", commissionController.GetCommission)
	protected.PUT("/commissions/:id", commissionController.EditCommission)
	protected.POST("/commissions/:id/approve", commissionController.ApproveCommission)
	protected.POST("/commissions/:id/reject", commissionController.RejectCommission)
	protected.POST("/commissions/:id/process", commissionController.StartProcessing)
	protected.POST("/commissions/:id/pay", commissionController.ProcessPayment)

	// Content pages
	protected.GET("/pages", pageController.GetPages)
	protected.POST("/pages", pageController.CreatePage)
	protected.PUT("/pages/:id", pageController.UpdatePage)
	protected.DELETE("/pages/:id", pageController.DeletePage)

	// Platform settings
	protected.GET("/settings", settingsController.GetSettings)
	protected.PUT("/settings", settingsController.UpdateSettings)
}
