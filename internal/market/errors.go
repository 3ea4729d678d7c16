package market

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a remote body that could not be decoded or is missing required fields.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned when a remote endpoint answers with a non-200 status.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote request to %s failed with status %d", e.Endpoint, e.StatusCode)
}
