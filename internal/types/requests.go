package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// CompleteTaskRequest marks a virtual task as done for one occurrence date.
type CompleteTaskRequest struct {
	TaskKey        string     `json:"task_key" validate:"required,max=200"`
	OccurrenceDate Date       `json:"occurrence_date"`
	Label          string     `json:"label,omitempty" validate:"max=500"`
	SourceKind     SourceKind `json:"source_kind" validate:"required,oneof=manual learning content project"`
	SourceID       *uuid.UUID `json:"source_id,omitempty"`
}

// UncompleteTaskRequest removes the completion marker for one occurrence date.
type UncompleteTaskRequest struct {
	TaskKey        string `json:"task_key" validate:"required,max=200"`
	OccurrenceDate Date   `json:"occurrence_date"`
}

// AnalyticsRequest selects the analytics window.
type AnalyticsRequest struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// FieldError names the first request field that failed validation.
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Tag)
}

// Validate validates the CompleteTaskRequest using the validator.
func (r *CompleteTaskRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return firstFieldError(err)
	}
	if r.OccurrenceDate.IsZero() {
		return &FieldError{Field: "OccurrenceDate", Tag: "required"}
	}
	if r.SourceID == nil {
		return &FieldError{Field: "SourceID", Tag: "required"}
	}
	return nil
}

// Validate validates the UncompleteTaskRequest using the validator.
func (r *UncompleteTaskRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return firstFieldError(err)
	}
	if r.OccurrenceDate.IsZero() {
		return &FieldError{Field: "OccurrenceDate", Tag: "required"}
	}
	return nil
}

// Validate checks both bounds are present. Ordering is checked by the engine.
func (r *AnalyticsRequest) Validate() error {
	if r.Start.IsZero() {
		return &FieldError{Field: "Start", Tag: "required"}
	}
	if r.End.IsZero() {
		return &FieldError{Field: "End", Tag: "required"}
	}
	return nil
}

func firstFieldError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &FieldError{Field: ve.Field(), Tag: ve.Tag()}
	}
	return fmt.Errorf("validation error: %w", err)
}
