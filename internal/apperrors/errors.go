// Package apperrors defines the closed set of error conditions the user
// service raises intentionally. Anything outside this set is treated as an
// internal fault by the HTTP layer.
package apperrors

import "fmt"

// FieldError is a single field-level validation issue.
type FieldError struct {
	Field   string
	Message string
}

// NotFoundError signals that a requested resource does not exist.
type NotFoundError struct {
	Resource   string
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with identifier: %s", e.Resource, e.Identifier)
}

// NewNotFound creates a NotFoundError for the given resource and identifier.
func NewNotFound(resource, identifier string) *NotFoundError {
	return &NotFoundError{Resource: resource, Identifier: identifier}
}

// DuplicateError signals a uniqueness conflict on a specific field.
type DuplicateError struct {
	Resource string
	Field    string
	Value    string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists with %s: '%s'", e.Resource, e.Field, e.Value)
}

// NewDuplicate creates a DuplicateError for the given resource field value.
func NewDuplicate(resource, field, value string) *DuplicateError {
	return &DuplicateError{Resource: resource, Field: field, Value: value}
}

// ValidationError signals a hand-raised business validation failure with an
// ordered list of field issues.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Validation failed"
}

// AddField appends a field issue, keeping insertion order.
func (e *ValidationError) AddField(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// NewValidation creates a ValidationError with the given message.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ConstraintError signals a schema-level validation failure (struct tag
// violations). It renders identically to ValidationError; it differs only in
// origin.
type ConstraintError struct {
	Fields []FieldError
}

func (e *ConstraintError) Error() string {
	return "Validation failed"
}

// AddField appends a field issue, keeping insertion order.
func (e *ConstraintError) AddField(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// InvalidArgumentError signals a malformed request the handler could not
// interpret (bad body, bad path parameter).
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// NewInvalidArgument creates an InvalidArgumentError with the given message.
func NewInvalidArgument(message string) *InvalidArgumentError {
	return &InvalidArgumentError{Message: message}
}
