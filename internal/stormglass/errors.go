package stormglass

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when the API does not answer within the client timeout
	ErrTimeout = errors.New("stormglass request timed out")

	// ErrConnection is returned for transport failures other than timeouts
	ErrConnection = errors.New("stormglass connection failed")

	// ErrRateLimited is returned when a request would exceed the local quota budget
	ErrRateLimited = errors.New("stormglass request budget exhausted")
)

// HTTPError is returned when the API answers with a non-2xx status
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}
