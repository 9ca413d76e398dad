package utils

import "github.com/google/uuid"

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// ClientName builds the connection name reported to Redis (CLIENT LIST).
func ClientName(role string) string {
	return "redischat-" + role + "-" + NewID()
}
