package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a business-rule or constraint violation.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a uniqueness constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrForbidden indicates the caller lacks the required privilege.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// UserSafeMessage returns a message suitable for end users. Internal
// errors are masked behind a generic message.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials):
		return err.Error()
	default:
		return "an unexpected error occurred"
	}
}
