package domain

import "fmt"

// ValidationError names the offending field of a decoded record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func fieldError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Validator is implemented by every record served by the API.
type Validator interface {
	Validate() error
}
