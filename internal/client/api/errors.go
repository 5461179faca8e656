package api

import "errors"

// FallbackMessage is used when neither the backend nor the transport
// explains a failure.
const FallbackMessage = "An error occurred"

// Error is the single error shape returned by the pipeline.
type Error struct {
	Message string
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
}

func (e *Error) Error() string { return e.Message }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
