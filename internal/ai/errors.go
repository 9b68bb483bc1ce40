package ai

import (
	"errors"
	"fmt"
)

var (
	ErrRateLimited       = errors.New("rate limited")
	ErrPaymentRequired   = errors.New("payment required")
	ErrMissingCredential = errors.New("missing backend credential")
	ErrNoToolCall        = errors.New("no structured data returned")
	ErrTextTooShort      = errors.New("document text is too short or empty")
)

func IsRateLimited(err error) bool       { return errors.Is(err, ErrRateLimited) }
func IsPaymentRequired(err error) bool   { return errors.Is(err, ErrPaymentRequired) }
func IsMissingCredential(err error) bool { return errors.Is(err, ErrMissingCredential) }

// BackendError is a non-2xx answer other than 429 and 402.
type BackendError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// ParseError means the backend answered with a tool call whose arguments
// could not be used.
type ParseError struct {
	Provider string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse tool arguments: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
