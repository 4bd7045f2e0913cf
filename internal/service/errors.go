package serviceerrors

import (
	"context"
	"errors"

	databaseerrors "smartswiggy/internal/database"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrContextCanceled  = errors.New("context canceled")
	ErrDeadlineExceeded = errors.New("deadline exceeded")
)

// Translate maps context and storage failures onto the sentinels above.
// Anything else is returned unchanged.
func Translate(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return ErrContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrDeadlineExceeded
	case errors.Is(err, databaseerrors.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}

// Expected reports whether err is a routine outcome rather than a fault.
func Expected(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, databaseerrors.ErrNotFound)
}
