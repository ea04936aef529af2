package adapters

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrEmptyResponse is returned internally for a 204 or an empty body.
// Public adapter methods turn it into an empty result.
var ErrEmptyResponse = errors.New("no content")

// AdapterError is a failed call to a chain backend.
type AdapterError struct {
	Backend    Backend
	Method     string
	StatusCode int
	Body       string
	cause      error
}

func (e *AdapterError) Error() string {
	switch {
	case e.cause != nil && e.StatusCode == 0:
		return fmt.Sprintf("%s %s: %v", e.Backend, e.Method, e.cause)
	case e.cause != nil:
		return fmt.Sprintf("%s %s: status %d: %v", e.Backend, e.Method, e.StatusCode, e.cause)
	default:
		return fmt.Sprintf("%s %s: status %d: %s", e.Backend, e.Method, e.StatusCode, e.Body)
	}
}

func (e *AdapterError) Unwrap() error {
	return e.cause
}
