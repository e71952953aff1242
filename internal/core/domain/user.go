package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User models a registered identity. Email is unique and compared exactly as stored.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsValidID reports whether id is a well-formed identifier for users and listings
// (a 24 character ObjectID hex string).
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
