package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/career-tracker/internal/tasks"
	"github.com/jonathan/career-tracker/internal/tracker"
	"github.com/jonathan/career-tracker/internal/types"
)

// ErrValidation indicates a malformed query parameter or request body
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notAuthenticated *tracker.ErrNotAuthenticated
		invalidRange     *tracker.ErrInvalidRange
		fieldErr         *types.FieldError
		validationErr    *ErrValidation
		keyMismatch      *tasks.KeyMismatchError
		contentNotFound  *tasks.ContentNotFoundError
	)
	switch {
	case errors.As(err, &notAuthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &invalidRange),
		errors.As(err, &fieldErr),
		errors.As(err, &validationErr),
		errors.As(err, &keyMismatch):
		return http.StatusBadRequest
	case errors.As(err, &contentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
