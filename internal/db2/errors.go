package db2

import "fmt"

// RemoteError is returned when the gateway answers with a non-2xx status.
type RemoteError struct {
	Operation         Operation
	StatusCode        int
	StatusDescription string
}

func (e *RemoteError) Error() string {
	if e.StatusDescription == "" {
		return fmt.Sprintf("db2 %s: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("db2 %s: status %d: %s", e.Operation, e.StatusCode, e.StatusDescription)
}

// TransportError is returned when the gateway could not be reached or its
// answer could not be read.
type TransportError struct {
	Operation Operation
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("db2 %s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
