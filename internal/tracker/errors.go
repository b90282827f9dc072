package tracker

import (
	"fmt"

	"github.com/jonathan/career-tracker/internal/types"
)

// ErrNotAuthenticated indicates the caller has no current user
type ErrNotAuthenticated struct{}

func (e *ErrNotAuthenticated) Error() string {
	return "not authenticated"
}

// ErrInvalidRange indicates an analytics window that ends before it starts
type ErrInvalidRange struct {
	Start types.Date
	End   types.Date
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid range: end %s is before start %s", e.End, e.Start)
}
