package utils

import "github.com/google/uuid"

// GenerateUserID returns a fresh unique user ID.
func GenerateUserID() string {
	return uuid.NewString()
}

// GenerateNoteID returns a fresh unique note ID. Note IDs are generated
// here rather than by the storage layer so external references stay stable
// if the store is ever swapped.
func GenerateNoteID() string {
	return uuid.NewString()
}
