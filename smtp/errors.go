package smtp

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed is reported when every candidate port was tried
	// without producing a live connection.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrProtocol is reported when the server answered with something the
	// EHLO, HELO or AUTH dialogue cannot make sense of.
	ErrProtocol = errors.New("protocol failure")

	// ErrTLS is reported when the STARTTLS exchange or the encrypted
	// replacement connection fails. There is no fallback to plaintext.
	ErrTLS = errors.New("tls upgrade failed")

	// ErrAuthenticationRejected is reported when the server answered a
	// credential submission with a final negative status.
	ErrAuthenticationRejected = errors.New("authentication rejected")
)

// LoginError is the failure type Login returns. Err carries a category
// sentinel plus the underlying cause, so callers can match with errors.Is
// against the sentinels above, auth.ErrNoSupportedMethod and
// auth.ErrMissingAccessToken.
type LoginError struct {
	Host  string
	State State
	Err   error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login %s failed in state %s: %v", e.Host, e.State, e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}
