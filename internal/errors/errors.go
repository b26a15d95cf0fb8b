package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/leasebook/internal/middleware"
	"github.com/stwalsh4118/leasebook/internal/services"
)

// Error code constants for standardized error responses
const (
	ErrNotFound         = "NOT_FOUND"
	ErrBadRequest       = "BAD_REQUEST"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidation       = "VALIDATION_ERROR"
	ErrConflict         = "CONFLICT"
	ErrInvalidReference = "INVALID_REFERENCE"
	ErrConstraint       = "CONSTRAINT_VIOLATION"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// respond logs a client error at warn level and writes the envelope.
func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	requestID := middleware.GetRequestID(c)

	if log := middleware.GetLogger(c); log != nil {
		fields := map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
		}
		if details != nil {
			fields["details"] = details
		}
		log.Warn("Request rejected", fields)
	}

	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// Conflict returns a 409 Conflict error response.
func Conflict(c *gin.Context, code, message string) {
	respond(c, http.StatusConflict, code, message, nil)
}

// UnprocessableEntity returns a 422 response for requests naming a missing related entity.
func UnprocessableEntity(c *gin.Context, message string) {
	respond(c, http.StatusUnprocessableEntity, ErrInvalidReference, message, nil)
}

// InternalServerError returns a 500 Internal Server Error response.
// The error is logged; the client only sees message.
func InternalServerError(c *gin.Context, message string, err error) {
	requestID := middleware.GetRequestID(c)

	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrInternalServer,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// FromServiceError maps a service error onto its HTTP response. fallback is
// the client message used for unexpected failures.
func FromServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case stderrors.Is(err, services.ErrNotFound):
		NotFound(c, err.Error())
	case stderrors.Is(err, services.ErrInvalidInput):
		BadRequest(c, err.Error(), nil)
	case stderrors.Is(err, services.ErrInvalidReference):
		UnprocessableEntity(c, err.Error())
	case stderrors.Is(err, services.ErrInvalidState):
		Conflict(c, ErrConflict, err.Error())
	case stderrors.Is(err, services.ErrConstraintViolation):
		Conflict(c, ErrConstraint, "The record is still referenced by other records")
	default:
		InternalServerError(c, fallback, err)
	}
}

// ValidationError returns a 400 Bad Request error response with field-specific validation errors.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}

	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

// BindError reports a failed request binding, with field details when the
// validator produced them.
func BindError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		ValidationError(c, validationErrors)
		return
	}
	BadRequest(c, message, map[string]interface{}{"reason": err.Error()})
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "datetime":
		return "Must be a date formatted as " + err.Param()
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
