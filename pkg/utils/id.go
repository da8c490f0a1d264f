package utils

import "github.com/google/uuid"

// NewID returns a UUIDv7 string; ids sort in creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
