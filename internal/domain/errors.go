package domain

import "fmt"

// ValidationError reports a missing or blank required field.
// Message overrides the default text when set.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("the parameter %s is mandatory", e.Field)
}

// DuplicateError reports that the remote store already holds a user with Email.
type DuplicateError struct {
	Email string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("the user with email %q already exists", e.Email)
}

// GatewayError wraps any other failure of a remote call.
type GatewayError struct {
	Operation string
	Err       error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("db2 %s failed: %v", e.Operation, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
