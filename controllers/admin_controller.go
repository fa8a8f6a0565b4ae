package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rentshore/rentshore_backend/config"
	"github.com/rentshore/rentshore_backend/middleware"
	"github.com/rentshore/rentshore_backend/models"
	"github.com/rentshore/rentshore_backend/utils"
)

// AdminController handles user management and dashboard stats
type AdminController struct {
	db *mongo.Client
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client) *AdminController {
	return &AdminController{db: db}
}

// GetUsers lists accounts, optionally filtered by user type
func (ac *AdminController) GetUsers(c echo.Context) error {
	query := bson.M{}
	if userType := c.QueryParam("userType"); userType != "" {
		query["userType"] = userType
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(ac.db, "users").Find(ctx, query,
		options.Find().
			SetProjection(bson.M{"password": 0}).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching users",
		})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error reading users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved",
		Data:    users,
	})
}

// SetUserActive toggles an account's active flag. Deactivated users cannot
// log in; a super admin cannot be deactivated from here.
func (ac *AdminController) SetUserActive(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req struct {
		IsActive *bool `json:"isActive" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "isActive is required",
		})
	}

	result, err := config.GetCollection(ac.db, "users").UpdateOne(context.Background(),
		bson.M{"_id": id, "userType": bson.M{"$ne": models.UserTypeSuperAdmin}},
		bson.M{"$set": bson.M{"isActive": *req.IsActive, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating user",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User updated",
	})
}

// CreateAdmin registers a new admin account; only a super admin may call it
func (ac *AdminController) CreateAdmin(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil || claims.UserType != models.UserTypeSuperAdmin {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only a super admin can create admin accounts",
		})
	}

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}
	req.UserType = models.UserTypeAdmin
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	return createUserWithType(c, ac.db, req)
}

// GetDashboardStats returns headline counts for the admin dashboard
func (ac *AdminController) GetDashboardStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stats := map[string]int64{}
	counts := []struct {
		key        string
		collection string
		query      bson.M
	}{
		{"totalUsers", "users", bson.M{}},
		{"totalProperties", "properties", bson.M{"isActive": true}},
		{"pendingProperties", "properties", bson.M{"status": models.PropertyStatusPending, "isActive": true}},
		{"totalBookings", "bookings", bson.M{}},
		{"confirmedBookings", "bookings", bson.M{"status": models.BookingStatusConfirmed}},
		{"pendingCommissions", "commissions", bson.M{"disbursementStatus": models.DisbursementPending}},
	}

	for _, count := range counts {
		n, err := config.GetCollection(ac.db, count.collection).CountDocuments(ctx, count.query)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Error computing dashboard stats",
			})
		}
		stats[count.key] = n
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard stats",
		Data:    stats,
	})
}

func createUserWithType(c echo.Context, db *mongo.Client, req models.SignupRequest) error {
	collection := config.GetCollection(db, "users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := collection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking existing users",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email is already registered",
		})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error hashing password",
		})
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     req.Email,
		Password:  hashed,
		FullName:  req.FullName,
		Phone:     req.Phone,
		UserType:  req.UserType,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := collection.InsertOne(ctx, user); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error creating user",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Admin account created",
		Data:    user,
	})
}
