package api

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload means a response did not match the expected schema.
var ErrMalformedPayload = errors.New("malformed payload")

// ErrInvalidID means an id cannot address a single entity.
var ErrInvalidID = errors.New("invalid id")

// NetworkError is a transport-level failure: nothing usable came back.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: network: %v", e.Op, e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) UserMessage() string { return "Network request failed" }

// HTTPError is any non-2xx response. The status is kept for logs only.
type HTTPError struct {
	Op     string
	Status int
}

func (e *HTTPError) Error() string { return fmt.Sprintf("%s: %s", e.Op, e.UserMessage()) }

func (e *HTTPError) UserMessage() string { return fmt.Sprintf("HTTP error! status: %d", e.Status) }

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}
