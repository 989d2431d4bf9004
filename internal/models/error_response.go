package models

import "time"

// ValidationError is a single field-level issue inside an ErrorResponse.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error payload returned for every failed
// request. ValidationErrors preserves the order in which issues were raised.
type ErrorResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
func NewErrorResponse(status int, errLabel, message, path string) *ErrorResponse {
	return &ErrorResponse{
		Timestamp:        time.Now(),
		Status:           status,
		Error:            errLabel,
		Message:          message,
		Path:             path,
		ValidationErrors: []ValidationError{},
	}
}

// AddValidationError appends a field issue, keeping insertion order.
func (e *ErrorResponse) AddValidationError(field, message string) {
	e.ValidationErrors = append(e.ValidationErrors, ValidationError{Field: field, Message: message})
}
