// Package apperr holds the error kinds shared by the scheduling packages.
// Callers wrap one of the sentinels and match with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")

	// ErrOverlap is the conflict returned when a slot intersects another slot of the same calendar.
	ErrOverlap = fmt.Errorf("%w: slot overlaps with an existing slot in this calendar", ErrConflict)
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Internal marks a storage or transport failure, keeping the cause in the chain.
func Internal(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrInternal, err))
}

// IsBusiness reports whether err is one of the expected business-rule failures.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict)
}
