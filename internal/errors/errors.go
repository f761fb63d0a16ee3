// Package errors provides custom error types for the budgetd API.
// All service-layer errors should use AppError so every failure maps to a
// consistent HTTP response without leaking internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// Details, when set, is included in the response body.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    message,
		StatusCode: sentinel.StatusCode,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	ErrUserExists         = &AppError{Code: "USER_EXISTS", Message: "Username or email already taken", StatusCode: http.StatusConflict}
	ErrUserNotFound       = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "VALIDATION", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Transaction errors. CSV_PARSE is deliberately distinct from STORAGE_ERROR
// so a malformed import file is distinguishable from a failing store.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrCSVParse            = &AppError{Code: "CSV_PARSE", Message: "Failed to process CSV", StatusCode: http.StatusBadRequest}
	ErrStorage             = &AppError{Code: "STORAGE_ERROR", Message: "Storage operation failed", StatusCode: http.StatusInternalServerError}
)
