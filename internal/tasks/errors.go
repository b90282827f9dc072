package tasks

import (
	"fmt"

	"github.com/google/uuid"
)

// ContentNotFoundError means a content task referenced a missing content item.
type ContentNotFoundError struct {
	ContentID uuid.UUID
}

func (e *ContentNotFoundError) Error() string {
	return fmt.Sprintf("content not found: %s", e.ContentID)
}

// KeyMismatchError means a task key does not belong to the source it was submitted with.
type KeyMismatchError struct {
	Key     string
	Message string
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("task key %q: %s", e.Key, e.Message)
}
