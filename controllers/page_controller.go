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
	"github.com/rentshore/rentshore_backend/models"
)

// PageController handles admin-managed content pages (about, terms, FAQ)
type PageController struct {
	db *mongo.Client
}

// NewPageController creates a new page controller
func NewPageController(db *mongo.Client) *PageController {
	return &PageController{db: db}
}

// GetPageBySlug serves a published page to the public site
func (pc *PageController) GetPageBySlug(c echo.Context) error {
	slug := strings.ToLower(c.Param("slug"))

	var page models.Page
	err := config.GetCollection(pc.db, "pages").FindOne(context.Background(),
		bson.M{"slug": slug, "published": true}).Decode(&page)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Page not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching page",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Page retrieved",
		Data:    page,
	})
}

// GetPages lists every page, drafts included, for the admin dashboard
func (pc *PageController) GetPages(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(pc.db, "pages").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching pages",
		})
	}
	defer cursor.Close(ctx)

	var pages []models.Page
	if err := cursor.All(ctx, &pages); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error reading pages",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pages retrieved",
		Data:    pages,
	})
}

// CreatePage creates a content page; slugs are unique
func (pc *PageController) CreatePage(c echo.Context) error {
	var req models.PageRequest
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

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	collection := config.GetCollection(pc.db, "pages")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := collection.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking existing pages",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "A page with this slug already exists",
		})
	}

	now := time.Now()
	page := models.Page{
		ID:        primitive.NewObjectID(),
		Slug:      slug,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Published != nil {
		page.Published = *req.Published
	}

	if _, err := collection.InsertOne(ctx, page); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error creating page",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Page created",
		Data:    page,
	})
}

// UpdatePage updates a content page
func (pc *PageController) UpdatePage(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid page ID",
		})
	}

	var req models.PageRequest
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

	update := bson.M{
		"slug":      strings.ToLower(strings.TrimSpace(req.Slug)),
		"title":     req.Title,
		"body":      req.Body,
		"updatedAt": time.Now(),
	}
	if req.Published != nil {
		update["published"] = *req.Published
	}

	var page models.Page
	err = config.GetCollection(pc.db, "pages").FindOneAndUpdate(context.Background(),
		bson.M{"_id": id}, bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&page)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Page not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating page",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Page updated",
		Data:    page,
	})
}

// DeletePage removes a content page
func (pc *PageController) DeletePage(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid page ID",
		})
	}

	result, err := config.GetCollection(pc.db, "pages").DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error deleting page",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Page not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Page deleted",
	})
}
