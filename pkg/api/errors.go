package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when there is no usable session. The
	// caller has to log in again.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoBusiness is returned when the signed-in user is not linked to a business yet.
	ErrNoBusiness = errors.New("user has no business")

	// ErrUnknownTable is returned for table names the client does not list.
	ErrUnknownTable = errors.New("unknown table")
)

// APIError is a non-2xx response from the REST or auth API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying the request may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
