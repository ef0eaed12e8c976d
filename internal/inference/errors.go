package inference

import (
	"errors"
	"fmt"
)

// ErrNoOutput is returned when a provider answers without any text.
var ErrNoOutput = errors.New("no output generated")

// CapacityError reports that the provider refused a request for lack of
// budget (tokens or credits). Requested and Available are zero when the
// provider did not report them in structured form.
type CapacityError struct {
	Requested int
	Available int
	Message   string
}

func (e *CapacityError) Error() string {
	if e.Message != "" {
		return "capacity: " + e.Message
	}
	return fmt.Sprintf("capacity: %d required, %d available", e.Requested, e.Available)
}

// AuthError reports a credential or permission failure.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Message, e.Err)
	}
	return "auth: " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// TransportError is any other failure of the inference call, including
// malformed provider responses.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsCapacityError reports whether err is or wraps a *CapacityError.
func IsCapacityError(err error) bool {
	var capErr *CapacityError
	return errors.As(err, &capErr)
}

// IsAuthError reports whether err is or wraps an *AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
