package models

import "time"

// AuthTokenDB represents a persisted bearer token.
// Each user holds at most one token at a time.
type AuthTokenDB struct {
	UserID    int64     `json:"user_id" db:"user_id"`       // Owning user, primary key
	Token     string    `json:"token" db:"token"`           // Opaque bearer token value
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"` // Expiry; expired tokens are rejected
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Issue timestamp
}
