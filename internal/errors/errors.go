// Package errors provides custom error types for the Moneta API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional structured details,
// and optional internal error.
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
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
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithDetails creates a new AppError carrying a structured details payload,
// e.g. the usage counts blocking a category deletion.
func WithDetails(sentinel *AppError, details interface{}) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    details,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound          = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategoryName     = &AppError{Code: "DUPLICATE_CATEGORY_NAME", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
	ErrParentCategoryNotFound    = &AppError{Code: "PARENT_CATEGORY_NOT_FOUND", Message: "Parent category not found", StatusCode: http.StatusBadRequest}
	ErrCategoryTypeMismatch      = &AppError{Code: "CATEGORY_TYPE_MISMATCH", Message: "Parent category must have the same type", StatusCode: http.StatusBadRequest}
	ErrCircularCategoryReference = &AppError{Code: "CIRCULAR_CATEGORY_REFERENCE", Message: "Category cannot be its own ancestor or descendant", StatusCode: http.StatusBadRequest}
	ErrCategoryDepthExceeded     = &AppError{Code: "CATEGORY_DEPTH_EXCEEDED", Message: "Categories can be nested at most three levels deep", StatusCode: http.StatusBadRequest}
	ErrGlobalCategoryNotEditable = &AppError{Code: "GLOBAL_CATEGORY_NOT_EDITABLE", Message: "System categories cannot be modified", StatusCode: http.StatusForbidden}
	ErrGlobalCategoryUndeletable = &AppError{Code: "GLOBAL_CATEGORY_UNDELETABLE", Message: "System categories cannot be deleted", StatusCode: http.StatusForbidden}
	ErrCategoryInUse             = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is referenced by transactions, subcategories, or budgets", StatusCode: http.StatusConflict}
)
