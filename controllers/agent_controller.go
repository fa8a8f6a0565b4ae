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

// AgentController handles admin CRUD for booking agents
type AgentController struct {
	db *mongo.Client
}

// NewAgentController creates a new agent controller
func NewAgentController(db *mongo.Client) *AgentController {
	return &AgentController{db: db}
}

// CreateAgent registers a new agent from the admin dashboard
func (ac *AgentController) CreateAgent(c echo.Context) error {
	var req models.AgentRequest
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.db, "agents")
	email := strings.ToLower(strings.TrimSpace(req.Email))

	count, err := collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking existing agents",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An agent with this email already exists",
		})
	}

	now := time.Now()
	agent := models.Agent{
		ID:                primitive.NewObjectID(),
		FullName:          req.FullName,
		Email:             email,
		Phone:             req.Phone,
		CommissionPercent: req.CommissionPercent,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}

	if _, err := collection.InsertOne(ctx, agent); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error creating agent",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Agent created",
		Data:    agent,
	})
}

// GetAgents lists agents, optionally filtered to active ones
func (ac *AgentController) GetAgents(c echo.Context) error {
	query := bson.M{}
	if c.QueryParam("active") == "true" {
		query["isActive"] = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(ac.db, "agents").Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching agents",
		})
	}
	defer cursor.Close(ctx)

	var agents []models.Agent
	if err := cursor.All(ctx, &agents); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error reading agents",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Agents retrieved",
		Data:    agents,
	})
}

// GetAgent fetches a single agent
func (ac *AgentController) GetAgent(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid agent ID",
		})
	}

	var agent models.Agent
	err = config.GetCollection(ac.db, "agents").FindOne(context.Background(), bson.M{"_id": id}).Decode(&agent)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Agent not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching agent",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Agent retrieved",
		Data:    agent,
	})
}

// UpdateAgent updates an agent's profile and commission rate. The new rate
// applies to future bookings only; existing commission records keep their
// stored amounts.
func (ac *AgentController) UpdateAgent(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid agent ID",
		})
	}

	var req models.AgentRequest
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
		"fullName":          req.FullName,
		"email":             strings.ToLower(strings.TrimSpace(req.Email)),
		"phone":             req.Phone,
		"commissionPercent": req.CommissionPercent,
		"updatedAt":         time.Now(),
	}
	if req.IsActive != nil {
		update["isActive"] = *req.IsActive
	}

	var agent models.Agent
	err = config.GetCollection(ac.db, "agents").FindOneAndUpdate(context.Background(),
		bson.M{"_id": id}, bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&agent)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Agent not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating agent",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Agent updated",
		Data:    agent,
	})
}

// DeleteAgent deactivates an agent. Properties keep their agent reference;
// new bookings simply stop earning the agent a cut.
func (ac *AgentController) DeleteAgent(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid agent ID",
		})
	}

	result, err := config.GetCollection(ac.db, "agents").UpdateOne(context.Background(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error deactivating agent",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Agent not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Agent deactivated",
	})
}
