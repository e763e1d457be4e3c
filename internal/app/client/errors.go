package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/FACorreiaa/go-ticketing/internal/app/models"
)

// ValidationError is returned before any request is sent when client
// input cannot be turned into a request body.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{models.ErrValidation, e.Err}
}

// NetworkError means no response reached the client.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: no response from ticket API: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response, or a 2xx response whose body could
// not be decoded.
type ServerError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: ticket API responded %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: ticket API responded %d", e.Op, e.StatusCode)
}

func (e *ServerError) Unwrap() []error {
	var errs []error
	if e.Unauthorized() {
		errs = append(errs, models.ErrUnauthenticated)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Unauthorized reports a 401 or 403, i.e. the credential was refused.
func (e *ServerError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsUnauthorized reports whether err carries a refused credential.
func IsUnauthorized(err error) bool {
	return errors.Is(err, models.ErrUnauthenticated)
}

// Kind names the error class for logs and metrics.
func Kind(err error) string {
	var (
		validationErr *ValidationError
		networkErr    *NetworkError
		serverErr     *ServerError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &networkErr):
		return "network"
	case errors.As(err, &serverErr):
		return "server"
	default:
		return "unknown"
	}
}
