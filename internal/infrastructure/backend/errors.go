// internal/infrastructure/backend/errors.go
package backend

import (
	"errors"
	"fmt"
)

// Sentinel errors for the upstream API error taxonomy
var (
	// ErrUnauthenticated means the call was attempted without a usable
	// session, or the upstream rejected the bearer token.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotFound means the upstream reported no match for the resource.
	// It is a dedicated empty-state, not a transport failure.
	ErrNotFound = errors.New("resource not found")
)

// TransportError wraps network-level failures (DNS, timeout, connection
// reset, unreadable body). The original error is retained for diagnostics;
// shoppers only ever see a generic message.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerRejectedError carries an upstream success:false response. The
// message is passed through verbatim to the shopper.
type ServerRejectedError struct {
	StatusCode int
	Message    string
}

func (e *ServerRejectedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.StatusCode)
}

// IsTransport reports whether err is a transport-level failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// UserMessage converts an upstream error into the message shown to the
// shopper: rejections verbatim, everything else a generic fail-soft line.
func UserMessage(err error) string {
	var sre *ServerRejectedError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "Please log in to continue"
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.As(err, &sre):
		return sre.Error()
	default:
		return "Something went wrong. Please try again."
	}
}
