package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when a referenced report, review state or tag does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned when input is rejected before any state changes.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStorage wraps failures reported by the database.
	ErrStorage = errors.New("storage error")
)

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// storageError tags err as ErrStorage unless it already carries a kind.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
