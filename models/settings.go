package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformSettings is a singleton document holding marketplace-wide settings.
// The admin commission rate is surfaced read-only; the split calculation
// keeps its fixed default.
type PlatformSettings struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SupportEmail     string             `json:"supportEmail" bson:"supportEmail"`
	Currency         string             `json:"currency" bson:"currency"` // ISO 4217 code, e.g. "USD"
	AdminRatePercent float64            `json:"adminRatePercent" bson:"adminRatePercent"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SettingsRequest model for admin updates
type SettingsRequest struct {
	SupportEmail string `json:"supportEmail,omitempty" validate:"omitempty,email"`
	Currency     string `json:"currency,omitempty" validate:"omitempty,len=3"`
}
