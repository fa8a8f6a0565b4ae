package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeBookingRequest   = "booking_request"
	NotificationTypeBookingResponse  = "booking_response"
	NotificationTypeBookingConfirmed = "booking_confirmed"
	NotificationTypeCommissionUpdate = "commission_update"
	NotificationTypeListingReviewed  = "listing_reviewed"
)

// Notification is a persisted in-app notification
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Type      string             `json:"type" bson:"type"`
	Data      interface{}        `json:"data,omitempty" bson:"data,omitempty"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
