package common

import (
	"github.com/google/uuid"
)

// NewItemID generates an identifier for a list item that has none yet
func NewItemID() string {
	return uuid.New().String()
}
