package service

import (
	"errors"
	"fmt"
)

// ErrUnknownIntent indicates the classifier produced an intent with no
// registered handler: a contract mismatch, not a user error.
var ErrUnknownIntent = errors.New("no handler registered for intent")

// ValidationError marks a malformed inbound turn. Nothing is mutated when
// one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
