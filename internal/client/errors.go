package client

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBaseURL = errors.New("base URL must be absolute")
	ErrDecode         = errors.New("decode response body")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrNotEventStream = errors.New("response is not an event stream")
	ErrStreamEnded    = errors.New("event stream ended")
)

// APIError is returned for any non-success HTTP status. The response body is
// not inspected.
type APIError struct {
	StatusCode int
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}
