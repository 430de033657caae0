package models

import "time"

// UserDB represents a user record in the database.
type UserDB struct {
	ID           int64     `json:"id" db:"id"`                       // Primary key
	Email        string    `json:"email" db:"email"`                 // Unique email, domain part lower-cased
	Name         string    `json:"name" db:"name"`                   // Display name
	PasswordHash string    `json:"-" db:"password_hash"`             // Bcrypt hash, never serialized
	IsActive     bool      `json:"is_active" db:"is_active"`         // Inactive users cannot authenticate
	IsStaff      bool      `json:"is_staff" db:"is_staff"`           // Staff flag
	IsSuperuser  bool      `json:"is_superuser" db:"is_superuser"`   // Superuser flag
	CreatedAt    time.Time `json:"created_at" db:"created_at"`       // Creation timestamp
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`       // Last update timestamp
}
