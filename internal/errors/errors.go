// Package errors provides custom error types for the fintrack API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that
// errors.Is(err, ErrEntryNotFound) matches wrapped and re-messaged copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

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
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrMissingFields  = &AppError{Code: "MISSING_FIELDS", Message: "All fields are required", StatusCode: http.StatusBadRequest}
	ErrRouteNotFound  = &AppError{Code: "ROUTE_NOT_FOUND", Message: "Route not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrEmailInUse = &AppError{Code: "EMAIL_IN_USE", Message: "Email is already in use", StatusCode: http.StatusBadRequest}
)

// Person errors.
var (
	ErrBlankName        = &AppError{Code: "BLANK_NAME", Message: "Name is required", StatusCode: http.StatusBadRequest}
	ErrDuplicatePerson  = &AppError{Code: "DUPLICATE_PERSON", Message: "A person with this name already exists", StatusCode: http.StatusBadRequest}
	ErrPersonNotFound   = &AppError{Code: "PERSON_NOT_FOUND", Message: "Person not found", StatusCode: http.StatusNotFound}
	ErrPersonHasEntries = &AppError{Code: "PERSON_HAS_ENTRIES", Message: "Cannot delete a person that still has entries", StatusCode: http.StatusBadRequest}
)

// Entry errors.
var (
	ErrEntryNotFound     = &AppError{Code: "ENTRY_NOT_FOUND", Message: "Entry not found", StatusCode: http.StatusNotFound}
	ErrInvalidEntryType  = &AppError{Code: "INVALID_ENTRY_TYPE", Message: "Unsupported entry type", StatusCode: http.StatusBadRequest}
	ErrInvalidValue      = &AppError{Code: "INVALID_VALUE", Message: "Value must be a positive number", StatusCode: http.StatusBadRequest}
	ErrInvalidDate       = &AppError{Code: "INVALID_DATE", Message: "Date must be an ISO date (YYYY-MM-DD)", StatusCode: http.StatusBadRequest}
	ErrBlankDescription  = &AppError{Code: "BLANK_DESCRIPTION", Message: "Description is required", StatusCode: http.StatusBadRequest}
	ErrUnknownPerson     = &AppError{Code: "UNKNOWN_PERSON", Message: "Person not found", StatusCode: http.StatusBadRequest}
	ErrInvalidSummaryArg = &AppError{Code: "INVALID_PERIOD", Message: "Invalid year or month", StatusCode: http.StatusBadRequest}
)
