package extract

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fetch side of the pipeline. Callers match them with
// errors.Is to map failures onto transport-level responses.
var (
	// ErrInvalidURL means the caller-supplied URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrTimeout means the fetch did not complete within the configured timeout.
	ErrTimeout = errors.New("fetch timed out")

	// ErrSizeExceeded means the response body grew past the configured cap.
	ErrSizeExceeded = errors.New("response body exceeds size limit")

	// ErrDNS means the target host could not be resolved.
	ErrDNS = errors.New("host not found")

	// ErrConnection means the connection could not be established or broke mid-flight.
	ErrConnection = errors.New("connection failed")
)

// StatusError reports a response status outside [200, 300).
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Code)
}
