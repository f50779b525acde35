package autocomplete

import "github.com/google/uuid"

// NewSessionToken returns a fresh billing-session token.
func NewSessionToken() string {
	return uuid.NewString()
}
