package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is(). Messages are user-facing: the
// session controller surfaces err.Error() directly.
var (
	// ErrInvalidURL is returned when the base URL or endpoint path cannot
	// form a valid request URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidResponse is returned when the response body cannot be read.
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrUnauthorized is returned on HTTP 401.
	ErrUnauthorized = errors.New("unauthorized access")

	// ErrDecoding is returned when a 2xx body does not match the expected shape.
	ErrDecoding = errors.New("failed to decode response")

	// ErrNoInternet is returned when the request never reached the server.
	ErrNoInternet = errors.New("no internet connection")

	// ErrServer matches any *ServerError via errors.Is.
	ErrServer = errors.New("server error")
)

// ServerError is returned for non-2xx statuses other than 401. The response
// body is not parsed; only the status code is kept.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error with status code: %d", e.StatusCode)
}

// Is reports whether this error matches ErrServer.
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}
