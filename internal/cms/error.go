package cms

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks connection failures and timeouts. Only these flip
	// the shared Health to unavailable.
	ErrTransport = errors.New("cms transport failure")

	// ErrDecode marks a response body that is not a valid JSON envelope.
	ErrDecode = errors.New("cms response decode failure")
)

// StatusError is a non-2xx answer from the CMS. It is an application-level
// response, not a transport failure.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cms returned status %d: %s", e.StatusCode, e.Body)
}
