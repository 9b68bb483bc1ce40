package ai

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Kind is the failure class of a requestor error. It is used for log
// fields, metric labels and extraction log wording.
type Kind string

const (
	KindNone              Kind = ""
	KindRateLimited       Kind = "rate_limited"
	KindPaymentRequired   Kind = "payment_required"
	KindMissingCredential Kind = "missing_credential"
	KindNoToolCall        Kind = "no_tool_call"
	KindParse             Kind = "parse"
	KindTextTooShort      Kind = "text_too_short"
	KindTimeout           Kind = "timeout"
	KindNetwork           Kind = "network"
	KindBackend           Kind = "backend"
)

// Cooldown reports whether the backend should be left alone for a while
// after this kind of failure.
func (k Kind) Cooldown() bool {
	return k == KindRateLimited || k == KindPaymentRequired
}

// Classify maps any error returned by a Client to its Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	switch {
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrPaymentRequired):
		return KindPaymentRequired
	case errors.Is(err, ErrMissingCredential):
		return KindMissingCredential
	case errors.Is(err, ErrNoToolCall):
		return KindNoToolCall
	case errors.Is(err, ErrTextTooShort):
		return KindTextTooShort
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return KindParse
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		switch backendErr.StatusCode {
		case 429:
			return KindRateLimited
		case 402:
			return KindPaymentRequired
		}
		return KindBackend
	}

	if isTimeout(err) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	// Network errors that lost their type on the way
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "eof") {
		return KindNetwork
	}

	return KindBackend
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}
