package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound  = "NOT_FOUND"
	ErrCodeDuplicate = "DUPLICATE"

	// Business logic errors
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeIntegrityViolation = "INTEGRITY_VIOLATION"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError represents a standardized API error response
type APIError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Detail
}

// NewAPIError creates a new APIError
func NewAPIError(code, detail string) *APIError {
	return &APIError{
		Code:   code,
		Detail: detail,
	}
}

// RespondWithError sends an error response and stops the handler chain
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

// Helper functions for common error responses

// NotFound sends a 404 response
func NotFound(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, detail))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, detail))
}

// BadRequestWithFields sends a 400 response listing the offending fields
func BadRequestWithFields(c *gin.Context, detail string, fields map[string]string) {
	err := NewAPIError(ErrCodeInvalidInput, detail)
	err.Fields = fields
	RespondWithError(c, http.StatusBadRequest, err)
}

// Duplicate sends a 400 response for a unique field collision
func Duplicate(c *gin.Context, detail string) {
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeDuplicate, detail))
}

// InvalidState sends a 400 response for a failed precondition
func InvalidState(c *gin.Context, detail string) {
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidState, detail))
}

// IntegrityViolation sends a 400 response for a write the store rejected
func IntegrityViolation(c *gin.Context, detail string) {
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeIntegrityViolation, detail))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, detail))
}
