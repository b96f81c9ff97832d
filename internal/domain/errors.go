package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrMalformedDocument  = errors.New("malformed provider document")
	ErrUnsupportedPolicy  = errors.New("unsupported cancellation policy")
	ErrInvalidConstraints = errors.New("invalid search constraints")
)

// ProviderError is a failed or unreadable provider call. Status is 0 when the
// provider could not be reached at all.
type ProviderError struct {
	Service    string
	Status     int
	RawBody    string
	RetryAfter time.Duration
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: unreachable: %v", e.Service, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: status %d: %v", e.Service, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, e.RawBody)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether the caller may try the same call again later.
func (e *ProviderError) Retryable() bool {
	switch {
	case e.Status == 0:
		return true
	case e.Status == http.StatusTooManyRequests, e.Status >= 500:
		return true
	}
	return false
}
