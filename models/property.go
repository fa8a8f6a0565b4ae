package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing approval statuses
const (
	PropertyStatusPending  = "pending"
	PropertyStatusApproved = "approved"
	PropertyStatusRejected = "rejected"
)

// Location for map display
type Location struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Property represents a rental listing owned by an owner account
type Property struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID         primitive.ObjectID  `json:"ownerId" bson:"ownerId"`
	AgentID         *primitive.ObjectID `json:"agentId,omitempty" bson:"agentId,omitempty"` // managing agent, if any
	Title           string              `json:"title" bson:"title"`
	Description     string              `json:"description" bson:"description"`
	City            string              `json:"city" bson:"city"`
	Country         string              `json:"country" bson:"country"`
	Address         string              `json:"address" bson:"address"`
	Location        *Location           `json:"location,omitempty" bson:"location,omitempty"`
	PricePerNight   int64               `json:"pricePerNight" bson:"pricePerNight"` // minor units (cents)
	MaxGuests       int                 `json:"maxGuests" bson:"maxGuests"`
	Bedrooms        int                 `json:"bedrooms" bson:"bedrooms"`
	Bathrooms       int                 `json:"bathrooms" bson:"bathrooms"`
	Amenities       []string            `json:"amenities,omitempty" bson:"amenities,omitempty"`
	PhotoURLs       []string            `json:"photoUrls,omitempty" bson:"photoUrls,omitempty"`
	ThumbnailURLs   []string            `json:"thumbnailUrls,omitempty" bson:"thumbnailUrls,omitempty"`
	VideoURL        string              `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	VideoThumbnail  string              `json:"videoThumbnail,omitempty" bson:"videoThumbnail,omitempty"`
	Status          string              `json:"status" bson:"status"` // "pending", "approved", "rejected"
	RejectionReason string              `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	IsActive        bool                `json:"isActive" bson:"isActive"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// PropertyRequest model for creating/updating a listing
type PropertyRequest struct {
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description"`
	City           string    `json:"city" validate:"required"`
	Country        string    `json:"country" validate:"required"`
	Address        string    `json:"address"`
	Location       *Location `json:"location,omitempty"`
	PricePerNight  int64     `json:"pricePerNight" validate:"required,gt=0"`
	MaxGuests      int       `json:"maxGuests" validate:"required,gt=0"`
	Bedrooms       int       `json:"bedrooms"`
	Bathrooms      int       `json:"bathrooms"`
	Amenities      []string  `json:"amenities,omitempty"`
	AgentID        string    `json:"agentId,omitempty"`
	PhotoFiles     []string  `json:"photoFiles,omitempty"`     // Base64 encoded images
	PhotoFileNames []string  `json:"photoFileNames,omitempty"` // Original filenames
	VideoFile      string    `json:"videoFile,omitempty"`      // Base64 encoded video tour
	VideoFileName  string    `json:"videoFileName,omitempty"`
}

// PropertySearchFilter carries the public search query
type PropertySearchFilter struct {
	City      string     `json:"city,omitempty" query:"city"`
	Country   string     `json:"country,omitempty" query:"country"`
	Guests    int        `json:"guests,omitempty" query:"guests"`
	MinPrice  int64      `json:"minPrice,omitempty" query:"minPrice"`
	MaxPrice  int64      `json:"maxPrice,omitempty" query:"maxPrice"`
	CheckIn   *time.Time `json:"checkIn,omitempty" query:"checkIn"`
	CheckOut  *time.Time `json:"checkOut,omitempty" query:"checkOut"`
	Page      int        `json:"page,omitempty" query:"page"`
	PageSize  int        `json:"pageSize,omitempty" query:"pageSize"`
	SortField string     `json:"sortField,omitempty" query:"sortField"`
}

// PropertyStatusUpdateRequest model for admin moderation
type PropertyStatusUpdateRequest struct {
	Status          string `json:"status" validate:"required"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}
