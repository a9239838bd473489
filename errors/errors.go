package errors

import (
	"fmt"
	"net/http"

	"github.com/conserv-tt/conserv-backend/logger"
)

type ErrorType string

const (
	ValidationError      ErrorType = "VALIDATION_ERROR"
	NotFoundError        ErrorType = "NOT_FOUND"
	AuthError            ErrorType = "AUTHENTICATION_ERROR"
	DatabaseError        ErrorType = "DATABASE_ERROR"
	ServerError          ErrorType = "SERVER_ERROR"
	ForbiddenError       ErrorType = "FORBIDDEN"
	EmptyCartError       ErrorType = "EMPTY_CART"
	ReceiptNotFoundError ErrorType = "RECEIPT_NOT_FOUND"
	ExtractionError      ErrorType = "EXTRACTION_FAILED"
	ExternalError        ErrorType = "EXTERNAL_SERVICE_ERROR"
	ConflictError        ErrorType = "CONFLICT"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// GetHTTPStatus returns the HTTP status to use for this error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// Unwrap exposes the wrapped raw error for errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper functions for common errors

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NewDatabaseError(err error) *AppError {
	// Log original error but return sanitized message
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func Forbidden(message string, details string) *AppError {
	return &AppError{
		Type:       ForbiddenError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusForbidden,
	}
}

// EmptyCart is returned when a billing action requires at least one cart line.
func EmptyCart() *AppError {
	return &AppError{
		Type:       EmptyCartError,
		Message:    "Cart is empty. Add at least one item before creating a receipt.",
		HTTPStatus: http.StatusBadRequest,
	}
}

func ReceiptNotFound(id interface{}) *AppError {
	return &AppError{
		Type:       ReceiptNotFoundError,
		Message:    "Receipt not found",
		Detail:     fmt.Sprintf("Receipt ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

// ExtractionFailed wraps failures from the AI document/text extraction pipeline.
func ExtractionFailed(err error) *AppError {
	return &AppError{
		Type:       ExtractionError,
		Message:    "Extraction failed",
		Detail:     err.Error(),
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

// ExternalServiceError wraps failures reaching an upstream collaborator
// (AI adviser, object storage, dispatch messaging).
func ExternalServiceError(service string, err error) *AppError {
	return &AppError{
		Type:       ExternalError,
		Message:    fmt.Sprintf("%s request failed", service),
		Detail:     err.Error(),
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

func NewConflictError(message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

func Unauthorized(code, message string) error {
	return NewError(
		AuthError,
		code,
		message,
		http.StatusUnauthorized,
	)
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, EmptyCartError:
		return http.StatusBadRequest
	case NotFoundError, ReceiptNotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case ConflictError:
		return http.StatusConflict
	case ExtractionError, ExternalError:
		return http.StatusBadGateway
	case DatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func NewError(errType ErrorType, code string, message string, status int) error {
	return &AppError{
		Type:       errType,
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}
