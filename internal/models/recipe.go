package models

import "time"

// RecipeDB represents a recipe record in the database.
type RecipeDB struct {
	ID          int64     `json:"id" db:"id"`                     // Primary key
	UserID      int64     `json:"user_id" db:"user_id"`           // Owning user, immutable after creation
	Title       string    `json:"title" db:"title"`               // Recipe title
	Description string    `json:"description" db:"description"`   // Optional free text
	TimeMinutes int       `json:"time_minutes" db:"time_minutes"` // Time to cook, minutes
	Price       string    `json:"price" db:"price"`               // Fixed-point decimal, 2 fraction digits
	Link        string    `json:"link" db:"link"`                 // Optional external link
	ImagePath   string    `json:"image_path" db:"image_path"`     // Media-root-relative image path
	CreatedAt   time.Time `json:"created_at" db:"created_at"`     // Creation timestamp
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`     // Last update timestamp
}

// Recipe is a recipe with its attached tags and ingredients resolved.
type Recipe struct {
	RecipeDB
	Tags        []Attribute // Attached tags
	Ingredients []Attribute // Attached ingredients
}
