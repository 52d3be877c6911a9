package api

import "fmt"

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeAuthentication ErrorType = "authentication_error"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeServerError    ErrorType = "server_error"
)

// APIError represents a structured API error. Validation failures carry
// per-field messages in Fields, keyed by the offending request field.
type APIError struct {
	Type    ErrorType           `json:"type"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s %v", e.Type, e.Message, e.Fields)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError as the top-level JSON error body.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewFieldError creates a validation error for a single request field.
func NewFieldError(field, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Message: "validation failed",
		Fields:  map[string][]string{field: {message}},
	}
}

// NewValidationError creates a validation error carrying per-field messages.
func NewValidationError(fields map[string][]string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Message: "validation failed",
		Fields:  fields,
	}
}

// NewInvalidRequestError creates an APIError for a malformed request that
// is not tied to a specific body field (bad query parameters, bad JSON).
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Message: message,
	}
}

// NewAuthenticationError creates an APIError for missing or invalid credentials.
func NewAuthenticationError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeAuthentication,
		Message: message,
	}
}

// NewForbiddenError creates an APIError for authenticated but unauthorized access.
func NewForbiddenError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewServerError creates an APIError for internal failures. Callers pass a
// fixed message to avoid leaking internals to clients.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}
