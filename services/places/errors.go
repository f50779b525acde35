package places

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when no server-held credential is configured.
var ErrMissingAPIKey = errors.New("maps API key is not configured")

// ProviderError wraps a failure talking to an upstream mapping provider.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("places %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
