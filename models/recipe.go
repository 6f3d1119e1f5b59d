package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is a cooking recipe owned by exactly one user. Ownership is assigned
// at creation time and is immutable afterwards.
type Recipe struct {
	// ID is the server-assigned primary key.
	ID int64 `json:"id"`

	// UserID identifies the owner. Every read and write against the
	// persistence layer is filtered by this value.
	UserID int64 `json:"-"`

	// Title is the recipe name shown in listings.
	Title string `json:"title"`

	// Description is free-form text; present only in the detail projection.
	Description string `json:"description"`

	// Price is a fixed-point decimal with two fraction digits.
	// Serialized as a quoted string (e.g. "5.32").
	Price decimal.Decimal `json:"price"`

	// TimeMinutes is the preparation time. Never negative.
	TimeMinutes int `json:"time_minutes"`

	// Tags is the set of tags associated with the recipe.
	// Order is not significant in storage.
	Tags []Tag `json:"tags"`

	// CreatedAt is the timestamp of recipe creation.
	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the Recipe model.
func (r Recipe) TableName() string {
	return "recipes"
}
