package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Agent represents a booking agent managed from the admin dashboard
type Agent struct {
	ID                primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID            *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"` // linked login account, if any
	FullName          string              `json:"fullName" bson:"fullName"`
	Email             string              `json:"email" bson:"email"`
	Phone             string              `json:"phone,omitempty" bson:"phone,omitempty"`
	CommissionPercent float64             `json:"commissionPercent" bson:"commissionPercent"` // e.g. 5 for 5% of the booking total
	IsActive          bool                `json:"isActive" bson:"isActive"`
	CreatedAt         time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// AgentRequest model for admin create/update
type AgentRequest struct {
	FullName          string  `json:"fullName" validate:"required"`
	Email             string  `json:"email" validate:"required,email"`
	Phone             string  `json:"phone,omitempty"`
	CommissionPercent float64 `json:"commissionPercent" validate:"gte=0,lte=100"`
	IsActive          *bool   `json:"isActive,omitempty"`
}
