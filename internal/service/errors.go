package service

import (
	"errors"
	"fmt"

	"github.com/crownhub/crowns-be/internal/storage"
)

// Errors surfaced to callers. Wrapped errors keep the sentinel reachable via errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrAuth              = errors.New("authentication failed")
	ErrNotFound          = errors.New("not found")
	ErrPermission        = errors.New("permission denied")
	ErrConflict          = errors.New("already exists")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNotCreator        = errors.New("account is not a creator")
	ErrNothingToWithdraw = errors.New("nothing to withdraw")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// fromStorage maps storage sentinels onto service errors; what names the missing record.
func fromStorage(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, storage.ErrAlreadyExists):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	default:
		return err
	}
}
