package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Post errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrInvalidPostType = errors.New("post type not permitted for role")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Publication pipeline errors. Each sentinel marks one stage of the
// submit pipeline so callers can tell a pre-persistence failure apart
// from a failure after the post is already durable.
var (
	// ErrMediaUploadFailed means a specific attachment could not be
	// stored; the whole submission is aborted and no post exists.
	ErrMediaUploadFailed = errors.New("media upload failed")

	// ErrPersistenceFailed means the post insert/update itself failed;
	// no notifications were attempted.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrFanoutFailed means announcement notifications could not be
	// delivered. The post has already been created; this error is
	// logged, never surfaced to the submitter as a request failure.
	ErrFanoutFailed = errors.New("notification fan-out failed")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for a failed input validation
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewMediaUploadError creates an upload failure error naming the offending file
func NewMediaUploadError(filename string, cause error) error {
	return &CustomError{
		Err:     ErrMediaUploadFailed,
		Message: fmt.Sprintf("failed to upload %q: %v", filename, cause),
	}
}

// NewPersistenceError wraps a store failure, keeping the store's message verbatim
func NewPersistenceError(cause error) error {
	return &CustomError{
		Err:     ErrPersistenceFailed,
		Message: cause.Error(),
	}
}

// NewFanoutError wraps a failure from the announcement fan-out
func NewFanoutError(cause error) error {
	return &CustomError{
		Err:     ErrFanoutFailed,
		Message: cause.Error(),
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
