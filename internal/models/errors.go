package models

import "fmt"

// ValidationError reports missing or malformed input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a missing person or relationship
type NotFoundError struct {
	Resource string
	ID       string
	Message  string // overrides the generated message when set
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a duplicate relationship
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrFullNameRequired        = &ValidationError{Field: "full_name", Message: "Full name is required"}
	ErrInvalidGender           = &ValidationError{Field: "gender", Message: "Gender must be one of M, F, O"}
	ErrInvalidRelationshipType = &ValidationError{Field: "relationship_type", Message: "Relationship type must be spouse or parent_child"}
)
