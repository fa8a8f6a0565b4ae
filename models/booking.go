package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusAccepted  = "accepted"
	BookingStatusRejected  = "rejected"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a guest's stay at a property
type Booking struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID      primitive.ObjectID  `json:"propertyId" bson:"propertyId"`
	GuestID         primitive.ObjectID  `json:"guestId" bson:"guestId"`
	OwnerID         primitive.ObjectID  `json:"ownerId" bson:"ownerId"`
	AgentID         *primitive.ObjectID `json:"agentId,omitempty" bson:"agentId,omitempty"`
	CheckIn         time.Time           `json:"checkIn" bson:"checkIn"`
	CheckOut        time.Time           `json:"checkOut" bson:"checkOut"`
	Guests          int                 `json:"guests" bson:"guests"`
	TotalAmount     int64               `json:"totalAmount" bson:"totalAmount"`         // minor units (cents)
	AgentCommission int64               `json:"agentCommission" bson:"agentCommission"` // minor units (cents)
	Status          string              `json:"status" bson:"status"`                   // "pending", "accepted", "rejected", "confirmed", "completed", "cancelled"
	OwnerResponse   string              `json:"ownerResponse,omitempty" bson:"ownerResponse,omitempty"`
	CheckInCode     string              `json:"checkInCode,omitempty" bson:"checkInCode,omitempty"` // QR code data URL, set on confirmation
	PhoneNumber     string              `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Notes           string              `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// BookingRequest model
type BookingRequest struct {
	PropertyID  string    `json:"propertyId" validate:"required"`
	CheckIn     time.Time `json:"checkIn" validate:"required"`
	CheckOut    time.Time `json:"checkOut" validate:"required"`
	Guests      int       `json:"guests" validate:"required,gt=0"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// BookingStatusUpdateRequest model for owner accept/reject and admin updates
type BookingStatusUpdateRequest struct {
	Status        string `json:"status" validate:"required"`
	OwnerResponse string `json:"ownerResponse,omitempty"`
}
