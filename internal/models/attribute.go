package models

// Attribute is an owner-scoped label attachable to recipes.
// Tags and ingredients share this shape; they differ only in the
// tables they live in.
type Attribute struct {
	ID     int64  `json:"id" db:"id"`     // Primary key
	UserID int64  `json:"-" db:"user_id"` // Owning user
	Name   string `json:"name" db:"name"` // Label, unique per (user, name)
}
