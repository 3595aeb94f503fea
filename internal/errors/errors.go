package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error for the boundary layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
)

// AppError is a typed domain error carrying a stable machine-readable code.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches on kind and code so that wrapped copies with a different
// message still compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithMessage returns a copy of e with a more specific message.
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	return &AppError{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

func newError(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// Validation builds a ValidationError.
func Validation(message string) *AppError {
	return newError(KindValidation, "VALIDATION_ERROR", message)
}

// Forbidden builds a Forbidden error with the given code.
func Forbidden(code, message string) *AppError {
	return newError(KindForbidden, code, message)
}

// Conflict builds a Conflict error with the given code.
func Conflict(code, message string) *AppError {
	return newError(KindConflict, code, message)
}

// NotFound builds a NotFound error with the given code.
func NotFound(code, message string) *AppError {
	return newError(KindNotFound, code, message)
}

var (
	// ErrUnauthorized is returned when a credential is missing or invalid.
	ErrUnauthorized = newError(KindUnauthorized, "UNAUTHORIZED", "authentication required")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = newError(KindUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	// ErrAccountDisabled is returned when an inactive user tries to log in.
	ErrAccountDisabled = newError(KindForbidden, "ACCOUNT_DISABLED", "your account has been disabled")
	// ErrForbidden is returned when the caller is authenticated but not entitled.
	ErrForbidden = newError(KindForbidden, "FORBIDDEN", "you do not have permission to perform this action")
	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = newError(KindConflict, "USER_ALREADY_EXISTS", "user with this email already exists")

	ErrUserNotFound         = newError(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrTutorNotFound        = newError(KindNotFound, "TUTOR_NOT_FOUND", "tutor not found")
	ErrTutorProfileNotFound = newError(KindNotFound, "TUTOR_PROFILE_NOT_FOUND", "tutor profile not found")
	ErrCategoryNotFound     = newError(KindNotFound, "CATEGORY_NOT_FOUND", "category not found")
	ErrBookingNotFound      = newError(KindNotFound, "BOOKING_NOT_FOUND", "booking not found")
	ErrReviewNotFound       = newError(KindNotFound, "REVIEW_NOT_FOUND", "review not found")
	ErrSlotNotFound         = newError(KindNotFound, "SLOT_NOT_FOUND", "availability slot not found")

	// ErrInvalidTransition is returned when the actor may not move a booking to the requested status.
	ErrInvalidTransition = newError(KindForbidden, "INVALID_STATUS_TRANSITION", "you cannot change this booking to the requested status")
	// ErrBookingNotConfirmed is returned when a non-admin transitions a booking that already left CONFIRMED.
	ErrBookingNotConfirmed = newError(KindConflict, "BOOKING_NOT_CONFIRMED", "only confirmed bookings can change status")
	// ErrBookingNotCompleted is returned when reviewing a booking that is not COMPLETED.
	ErrBookingNotCompleted = newError(KindConflict, "BOOKING_NOT_COMPLETED", "can only review completed bookings")
	// ErrReviewExists is returned on a second review for the same booking.
	ErrReviewExists = newError(KindConflict, "REVIEW_ALREADY_EXISTS", "review already exists for this booking")
	// ErrCategoryExists is returned when a category name is taken.
	ErrCategoryExists = newError(KindConflict, "CATEGORY_ALREADY_EXISTS", "category with this name already exists")
	// ErrCategoryInUse is returned when deleting a category still referenced by bookings.
	ErrCategoryInUse = newError(KindConflict, "CATEGORY_IN_USE", "category is referenced by existing bookings")
	// ErrCannotDeleteAdmin is returned when an admin account is targeted for deletion.
	ErrCannotDeleteAdmin = newError(KindForbidden, "CANNOT_DELETE_ADMIN", "admin accounts cannot be deleted")

	// ErrRateLimited is returned when a client exceeds its request budget.
	ErrRateLimited = newError(KindRateLimited, "RATE_LIMITED", "too many requests, please try again later")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns a plain error.
func New(text string) error {
	return errors.New(text)
}

// KindOf returns the kind of err, KindInternal when it is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Errors outside the
// taxonomy become a generic 500 so storage details never reach clients.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}

	switch appErr.Kind {
	case KindValidation:
		return NewHTTPError(http.StatusBadRequest, appErr.Message, appErr.Code)
	case KindUnauthorized:
		return NewHTTPError(http.StatusUnauthorized, appErr.Message, appErr.Code)
	case KindForbidden:
		return NewHTTPError(http.StatusForbidden, appErr.Message, appErr.Code)
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, appErr.Message, appErr.Code)
	case KindConflict:
		return NewHTTPError(http.StatusConflict, appErr.Message, appErr.Code)
	case KindRateLimited:
		return NewHTTPError(http.StatusTooManyRequests, appErr.Message, appErr.Code)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
