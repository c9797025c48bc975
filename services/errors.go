package services

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced by the ledger service. Handlers map these to HTTP
// statuses with errors.Is; anything else is treated as a storage failure.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrConflict            = errors.New("write conflict")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
