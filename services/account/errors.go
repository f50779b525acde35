package account

import "fmt"

// Error codes carried by AccountError. Handlers map them to HTTP statuses.
const (
	CodeInvalid      = "invalid"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodePending      = "pending"
	CodeNotFound     = "not_found"
)

// AccountError is a user-facing failure with a machine-readable code.
type AccountError struct {
	Code    string
	Message string
}

func (e AccountError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(msg string) error      { return AccountError{Code: CodeInvalid, Message: msg} }
func unauthorized(msg string) error { return AccountError{Code: CodeUnauthorized, Message: msg} }
