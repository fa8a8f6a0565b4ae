package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is an admin-managed content page served by slug
type Page struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Slug      string             `json:"slug" bson:"slug"`
	Title     string             `json:"title" bson:"title"`
	Body      string             `json:"body" bson:"body"`
	Published bool               `json:"published" bson:"published"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PageRequest model
type PageRequest struct {
	Slug      string `json:"slug" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body"`
	Published *bool  `json:"published,omitempty"`
}
