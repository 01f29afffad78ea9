package models

import (
	"github.com/google/uuid"
)

// generateUUID returns a new random UUID string used as a primary key.
func generateUUID() string {
	return uuid.New().String()
}
