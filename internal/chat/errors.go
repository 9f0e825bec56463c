package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned before any request is made when the
	// provider has no credentials.
	ErrMissingAPIKey = errors.New("missing API key for completion provider")
	// ErrMissingModel is returned when no model is configured.
	ErrMissingModel = errors.New("missing model for completion provider")
	// ErrEmptyResponse is returned when the backend answers without text.
	ErrEmptyResponse = errors.New("completion response was empty")
	// ErrDisabled is returned by the provider configured as "none".
	ErrDisabled = errors.New("completion provider is disabled")
)

type ErrUnsupportedProvider struct {
	Provider string
}

func (e ErrUnsupportedProvider) Error() string {
	return fmt.Sprintf("unsupported completion provider: %s", e.Provider)
}

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Provider   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Status)
}
