package controllers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path/filepath"
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

// PropertyController handles listing endpoints
type PropertyController struct {
	db *mongo.Client
}

// NewPropertyController creates a new property controller
func NewPropertyController(db *mongo.Client) *PropertyController {
	return &PropertyController{db: db}
}

// CreateProperty creates a new listing for the authenticated owner. New
// listings start pending until an admin reviews them.
func (pc *PropertyController) CreateProperty(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.PropertyRequest
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

	photoURLs, thumbnailURLs, err := pc.savePhotos(ownerID, req.PhotoFiles, req.PhotoFileNames)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	videoURL, videoThumbnail := "", ""
	if req.VideoFile != "" {
		videoURL, videoThumbnail, err = pc.saveVideo(ownerID, req.VideoFile, req.VideoFileName)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
	}

	var agentID *primitive.ObjectID
	if req.AgentID != "" {
		id, err := primitive.ObjectIDFromHex(req.AgentID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid agent ID",
			})
		}
		var agent models.Agent
		err = config.GetCollection(pc.db, "agents").FindOne(context.Background(), bson.M{"_id": id, "isActive": true}).Decode(&agent)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Agent not found",
			})
		}
		agentID = &id
	}

	now := time.Now()
	property := models.Property{
		ID:             primitive.NewObjectID(),
		OwnerID:        ownerID,
		AgentID:        agentID,
		Title:          req.Title,
		Description:    req.Description,
		City:           req.City,
		Country:        req.Country,
		Address:        req.Address,
		Location:       req.Location,
		PricePerNight:  req.PricePerNight,
		MaxGuests:      req.MaxGuests,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		Amenities:      req.Amenities,
		PhotoURLs:      photoURLs,
		ThumbnailURLs:  thumbnailURLs,
		VideoURL:       videoURL,
		VideoThumbnail: videoThumbnail,
		Status:         models.PropertyStatusPending,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = config.GetCollection(pc.db, "properties").InsertOne(context.Background(), property)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error creating property",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Property submitted for review",
		Data:    property,
	})
}

func (pc *PropertyController) savePhotos(ownerID primitive.ObjectID, files, names []string) ([]string, []string, error) {
	var photoURLs, thumbnailURLs []string

	for i, file := range files {
		decoded, err := base64.StdEncoding.DecodeString(file)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid photo file format")
		}

		fileExt := ".jpg"
		if len(names) > i && filepath.Ext(names[i]) != "" {
			fileExt = filepath.Ext(names[i])
		}

		name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), primitive.NewObjectID().Hex(), fileExt)
		filename := fmt.Sprintf("properties/%s/%s", ownerID.Hex(), name)

		photoURL, err := utils.UploadFile(decoded, filename, "image")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to upload photo: %v", err)
		}

		thumbnailURL, err := utils.GenerateImageThumbnail(decoded, name)
		if err != nil {
			thumbnailURL = photoURL
		}

		photoURLs = append(photoURLs, photoURL)
		thumbnailURLs = append(thumbnailURLs, thumbnailURL)
	}

	return photoURLs, thumbnailURLs, nil
}

func (pc *PropertyController) saveVideo(ownerID primitive.ObjectID, file, name string) (string, string, error) {
	decoded, err := base64.StdEncoding.DecodeString(file)
	if err != nil {
		return "", "", fmt.Errorf("invalid video file format")
	}

	fileExt := ".mp4"
	if filepath.Ext(name) != "" {
		fileExt = filepath.Ext(name)
	}

	filename := fmt.Sprintf("videos/%s/%d_%s%s", ownerID.Hex(), time.Now().Unix(), primitive.NewObjectID().Hex(), fileExt)

	videoURL, err := utils.UploadFile(decoded, filename, "video")
	if err != nil {
		return "", "", fmt.Errorf("failed to upload video: %v", err)
	}

	thumbnail, err := utils.GenerateVideoThumbnail(videoURL)
	if err != nil {
		thumbnail = ""
	}

	return videoURL, thumbnail, nil
}

// GetProperty returns one approved listing for public display
func (pc *PropertyController) GetProperty(c echo.Context) error {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid property ID",
		})
	}

	var property models.Property
	err = config.GetCollection(pc.db, "properties").FindOne(context.Background(), bson.M{
		"_id":      propertyID,
		"status":   models.PropertyStatusApproved,
		"isActive": true,
	}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Property not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching property",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Property retrieved",
		Data:    property,
	})
}

// SearchProperties is the public listing search with city/guests/price/date
// filters. Date filters drop listings with a conflicting confirmed stay.
func (pc *PropertyController) SearchProperties(c echo.Context) error {
	var filter models.PropertySearchFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid search parameters",
		})
	}

	query := bson.M{
		"status":   models.PropertyStatusApproved,
		"isActive": true,
	}
	if filter.City != "" {
		query["city"] = bson.M{"$regex": filter.City, "$options": "i"}
	}
	if filter.Country != "" {
		query["country"] = bson.M{"$regex": filter.Country, "$options": "i"}
	}
	if filter.Guests > 0 {
		query["maxGuests"] = bson.M{"$gte": filter.Guests}
	}
	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		priceRange := bson.M{}
		if filter.MinPrice > 0 {
			priceRange["$gte"] = filter.MinPrice
		}
		if filter.MaxPrice > 0 {
			priceRange["$lte"] = filter.MaxPrice
		}
		query["pricePerNight"] = priceRange
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	sortField := "createdAt"
	if filter.SortField == "price" {
		sortField = "pricePerNight"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(pc.db, "properties").Find(ctx, query, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error searching properties",
		})
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error reading search results",
		})
	}

	if filter.CheckIn != nil && filter.CheckOut != nil {
		properties, err = pc.filterAvailable(ctx, properties, *filter.CheckIn, *filter.CheckOut)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Error checking availability",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("Found %d properties", len(properties)),
		Data:    properties,
	})
}

// filterAvailable drops properties that have a confirmed or accepted stay
// overlapping the requested range
func (pc *PropertyController) filterAvailable(ctx context.Context, properties []models.Property, checkIn, checkOut time.Time) ([]models.Property, error) {
	if len(properties) == 0 {
		return properties, nil
	}

	ids := make([]primitive.ObjectID, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}

	cursor, err := config.GetCollection(pc.db, "bookings").Find(ctx, bson.M{
		"propertyId": bson.M{"$in": ids},
		"status":     bson.M{"$in": []string{models.BookingStatusAccepted, models.BookingStatusConfirmed}},
		"checkIn":    bson.M{"$lt": checkOut},
		"checkOut":   bson.M{"$gt": checkIn},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conflicts []models.Booking
	if err := cursor.All(ctx, &conflicts); err != nil {
		return nil, err
	}

	booked := make(map[primitive.ObjectID]bool, len(conflicts))
	for _, b := range conflicts {
		booked[b.PropertyID] = true
	}

	available := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if !booked[p.ID] {
			available = append(available, p)
		}
	}
	return available, nil
}

// GetMyProperties lists the authenticated owner's listings in any status
func (pc *PropertyController) GetMyProperties(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(pc.db, "properties").Find(ctx, bson.M{"ownerId": ownerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching properties",
		})
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error reading properties",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Properties retrieved",
		Data:    properties,
	})
}

// UpdateProperty lets the owner edit their listing; edits put an approved
// listing back into review
func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid property ID",
		})
	}
	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.PropertyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	update := bson.M{
		"title":         req.Title,
		"description":   req.Description,
		"city":          req.City,
		"country":       req.Country,
		"address":       req.Address,
		"pricePerNight": req.PricePerNight,
		"maxGuests":     req.MaxGuests,
		"bedrooms":      req.Bedrooms,
		"bathrooms":     req.Bathrooms,
		"amenities":     req.Amenities,
		"status":        models.PropertyStatusPending,
		"updatedAt":     time.Now(),
	}
	if req.Location != nil {
		update["location"] = req.Location
	}

	result, err := config.GetCollection(pc.db, "properties").UpdateOne(context.Background(),
		bson.M{"_id": propertyID, "ownerId": ownerID},
		bson.M{"$set": update})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating property",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Property not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Property updated and resubmitted for review",
	})
}

// DeleteProperty soft-deletes the owner's listing
func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid property ID",
		})
	}
	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	result, err := config.GetCollection(pc.db, "properties").UpdateOne(context.Background(),
		bson.M{"_id": propertyID, "ownerId": ownerID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error deleting property",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Property not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Property removed",
	})
}

// GetPendingProperties lists listings awaiting admin review
func (pc *PropertyController) GetPendingProperties(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(pc.db, "properties").Find(ctx,
		bson.M{"status": models.PropertyStatusPending, "isActive": true},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching pending properties",
		})
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error reading pending properties",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending properties retrieved",
		Data:    properties,
	})
}

// UpdatePropertyStatus is the admin review action (approve or reject)
func (pc *PropertyController) UpdatePropertyStatus(c echo.Context) error {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid property ID",
		})
	}

	var req models.PropertyStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if req.Status != models.PropertyStatusApproved && req.Status != models.PropertyStatusRejected {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Status must be 'approved' or 'rejected'",
		})
	}
	if req.Status == models.PropertyStatusRejected && req.RejectionReason == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Rejection reason is required",
		})
	}

	update := bson.M{
		"status":    req.Status,
		"updatedAt": time.Now(),
	}
	if req.Status == models.PropertyStatusRejected {
		update["rejectionReason"] = req.RejectionReason
	}

	var property models.Property
	err = config.GetCollection(pc.db, "properties").FindOneAndUpdate(context.Background(),
		bson.M{"_id": propertyID},
		bson.M{"$set": update}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Property not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating property status",
		})
	}

	message := fmt.Sprintf("Your listing %q was %s", property.Title, req.Status)
	if err := utils.NotifyUser(pc.db, property.OwnerID, "Listing reviewed", message, models.NotificationTypeListingReviewed, nil); err != nil {
		c.Logger().Errorf("Failed to notify owner: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Property status updated",
	})
}
