package controllers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rentshore/rentshore_backend/config"
	"github.com/rentshore/rentshore_backend/middleware"
	"github.com/rentshore/rentshore_backend/models"
	"github.com/rentshore/rentshore_backend/services"
	"github.com/rentshore/rentshore_backend/utils"
	"github.com/rentshore/rentshore_backend/websocket"
)

// BookingController handles booking-related API endpoints
type BookingController struct {
	db          *mongo.Client
	hub         *websocket.Hub
	commissions *services.CommissionService
}

// NewBookingController creates a new booking controller
func NewBookingController(db *mongo.Client, hub *websocket.Hub, commissions *services.CommissionService) *BookingController {
	return &BookingController{db: db, hub: hub, commissions: commissions}
}

// CreateBooking creates a pending booking for the authenticated guest
func (bc *BookingController) CreateBooking(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	guestID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.BookingRequest
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

	nights := utils.NightsBetween(req.CheckIn, req.CheckOut)
	if nights < 1 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Check-out must be at least one night after check-in",
		})
	}

	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid property ID",
		})
	}

	var property models.Property
	err = config.GetCollection(bc.db, "properties").FindOne(context.Background(), bson.M{
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
			Message: "Error finding property",
		})
	}

	if req.Guests > property.MaxGuests {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Property sleeps at most %d guests", property.MaxGuests),
		})
	}

	// Check for a conflicting stay. Checkout day may equal another stay's
	// check-in day.
	bookingsCollection := config.GetCollection(bc.db, "bookings")
	cursor, err := bookingsCollection.Find(context.Background(), bson.M{
		"propertyId": propertyID,
		"status":     bson.M{"$in": []string{models.BookingStatusAccepted, models.BookingStatusConfirmed}},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking availability",
		})
	}
	var existing []models.Booking
	if err := cursor.All(context.Background(), &existing); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking availability",
		})
	}
	for _, b := range existing {
		if utils.RangesOverlap(req.CheckIn, req.CheckOut, b.CheckIn, b.CheckOut) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Property is not available for the selected dates",
			})
		}
	}

	totalAmount := int64(nights) * property.PricePerNight

	var agentCommission int64
	if property.AgentID != nil {
		var agent models.Agent
		err = config.GetCollection(bc.db, "agents").FindOne(context.Background(), bson.M{
			"_id":      *property.AgentID,
			"isActive": true,
		}).Decode(&agent)
		if err == nil {
			agentCommission = int64(math.Round(float64(totalAmount) * agent.CommissionPercent / 100))
		}
	}

	now := time.Now()
	booking := models.Booking{
		ID:              primitive.NewObjectID(),
		PropertyID:      propertyID,
		GuestID:         guestID,
		OwnerID:         property.OwnerID,
		AgentID:         property.AgentID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		TotalAmount:     totalAmount,
		AgentCommission: agentCommission,
		Status:          models.BookingStatusPending,
		PhoneNumber:     req.PhoneNumber,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := bookingsCollection.InsertOne(context.Background(), booking); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error creating booking",
		})
	}

	if err := bc.hub.NotifyBookingRequest(property.OwnerID, booking); err != nil {
		c.Logger().Debugf("Owner not connected for booking notification: %v", err)
	}
	if err := utils.NotifyUser(bc.db, property.OwnerID, "New booking request",
		fmt.Sprintf("New booking request for %q, %s to %s", property.Title,
			req.CheckIn.Format("2006-01-02"), req.CheckOut.Format("2006-01-02")),
		models.NotificationTypeBookingRequest, booking.ID.Hex()); err != nil {
		c.Logger().Errorf("Failed to notify owner: %v", err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Booking request sent",
		Data:    booking,
	})
}

// GetMyBookings lists the authenticated guest's bookings
func (bc *BookingController) GetMyBookings(c echo.Context) error {
	return bc.listBookings(c, "guestId")
}

// GetOwnerBookings lists bookings across the authenticated owner's properties
func (bc *BookingController) GetOwnerBookings(c echo.Context) error {
	return bc.listBookings(c, "ownerId")
}

func (bc *BookingController) listBookings(c echo.Context, field string) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	query := bson.M{field: userID}
	if status := c.QueryParam("status"); status != "" {
		query["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(bc.db, "bookings").Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching bookings",
		})
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error reading bookings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bookings retrieved",
		Data:    bookings,
	})
}

// RespondToBooking is the owner's accept/reject action on a pending booking
func (bc *BookingController) RespondToBooking(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}
	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.BookingStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if req.Status != models.BookingStatusAccepted && req.Status != models.BookingStatusRejected {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Status must be 'accepted' or 'rejected'",
		})
	}

	var booking models.Booking
	err = config.GetCollection(bc.db, "bookings").FindOneAndUpdate(context.Background(),
		bson.M{"_id": bookingID, "ownerId": ownerID, "status": models.BookingStatusPending},
		bson.M{"$set": bson.M{
			"status":        req.Status,
			"ownerResponse": req.OwnerResponse,
			"updatedAt":     time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Pending booking not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating booking",
		})
	}

	if err := bc.hub.NotifyBookingResponse(booking.GuestID, booking); err != nil {
		c.Logger().Debugf("Guest not connected for booking notification: %v", err)
	}
	if err := utils.NotifyUser(bc.db, booking.GuestID, "Booking "+req.Status,
		fmt.Sprintf("Your booking request was %s by the owner", req.Status),
		models.NotificationTypeBookingResponse, booking.ID.Hex()); err != nil {
		c.Logger().Errorf("Failed to notify guest: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking " + req.Status,
		Data:    booking,
	})
}

// ConfirmBooking is the guest's confirmation of an accepted booking. It cuts
// the commission record for the stay and issues the QR check-in code.
func (bc *BookingController) ConfirmBooking(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}
	guestID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	checkInCode, err := utils.GenerateQRCode(fmt.Sprintf("rentshore:checkin:%s", bookingID.Hex()))
	if err != nil {
		c.Logger().Errorf("Failed to generate check-in code: %v", err)
		checkInCode = ""
	}

	var booking models.Booking
	err = config.GetCollection(bc.db, "bookings").FindOneAndUpdate(context.Background(),
		bson.M{"_id": bookingID, "guestId": guestID, "status": models.BookingStatusAccepted},
		bson.M{"$set": bson.M{
			"status":      models.BookingStatusConfirmed,
			"checkInCode": checkInCode,
			"updatedAt":   time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Accepted booking not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error confirming booking",
		})
	}

	// A confirmed stay is what makes the booking commissionable
	if _, err := bc.commissions.CreateForBooking(context.Background(), &booking); err != nil {
		c.Logger().Errorf("Failed to create commission record for booking %s: %v", booking.ID.Hex(), err)
	}

	if err := utils.NotifyUser(bc.db, booking.OwnerID, "Booking confirmed",
		"A guest confirmed their stay at your property",
		models.NotificationTypeBookingConfirmed, booking.ID.Hex()); err != nil {
		c.Logger().Errorf("Failed to notify owner: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking confirmed",
		Data:    booking,
	})
}

// CancelBooking lets the guest withdraw a booking that has not been confirmed
func (bc *BookingController) CancelBooking(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}
	guestID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	result, err := config.GetCollection(bc.db, "bookings").UpdateOne(context.Background(),
		bson.M{
			"_id":     bookingID,
			"guestId": guestID,
			"status":  bson.M{"$in": []string{models.BookingStatusPending, models.BookingStatusAccepted}},
		},
		bson.M{"$set": bson.M{"status": models.BookingStatusCancelled, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error cancelling booking",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Cancellable booking not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking cancelled",
	})
}

// CompleteBooking marks a confirmed stay as completed after check-out
func (bc *BookingController) CompleteBooking(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	query := bson.M{"_id": bookingID, "status": models.BookingStatusConfirmed}
	// Owners may only complete their own bookings; admins may complete any
	if claims.UserType == models.UserTypeOwner {
		ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID",
			})
		}
		query["ownerId"] = ownerID
	}

	result, err := config.GetCollection(bc.db, "bookings").UpdateOne(context.Background(), query,
		bson.M{"$set": bson.M{"status": models.BookingStatusCompleted, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error completing booking",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Confirmed booking not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking completed",
	})
}
