package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rentshore/rentshore_backend/config"
	"github.com/rentshore/rentshore_backend/models"
	"github.com/rentshore/rentshore_backend/services"
)

// SettingsController serves the platform settings singleton
type SettingsController struct {
	db *mongo.Client
}

// NewSettingsController creates a new settings controller
func NewSettingsController(db *mongo.Client) *SettingsController {
	return &SettingsController{db: db}
}

// GetSettings returns the settings document, seeding defaults on first read
func (sc *SettingsController) GetSettings(c echo.Context) error {
	settings, err := sc.loadOrSeed(context.Background())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching settings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings retrieved",
		Data:    settings,
	})
}

// UpdateSettings updates the editable settings fields. The admin commission
// rate is not editable from the API.
func (sc *SettingsController) UpdateSettings(c echo.Context) error {
	var req models.SettingsRequest
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

	ctx := context.Background()
	settings, err := sc.loadOrSeed(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching settings",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.SupportEmail != "" {
		update["supportEmail"] = req.SupportEmail
	}
	if req.Currency != "" {
		update["currency"] = req.Currency
	}

	err = config.GetCollection(sc.db, "settings").FindOneAndUpdate(ctx,
		bson.M{"_id": settings.ID}, bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(settings)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating settings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings updated",
		Data:    settings,
	})
}

func (sc *SettingsController) loadOrSeed(ctx context.Context) (*models.PlatformSettings, error) {
	collection := config.GetCollection(sc.db, "settings")

	var settings models.PlatformSettings
	err := collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == nil {
		return &settings, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	settings = models.PlatformSettings{
		SupportEmail:     "support@rentshore.app",
		Currency:         "USD",
		AdminRatePercent: services.DefaultAdminRate * 100,
		UpdatedAt:        time.Now(),
	}
	result, err := collection.InsertOne(ctx, settings)
	if err != nil {
		return nil, err
	}
	if err := collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
