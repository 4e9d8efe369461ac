package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

var (
	// ErrRateLimited marks upstream throttling. Callers may retry it.
	ErrRateLimited = errors.New("too many requests")
	// ErrUnknownModel is returned for model keys missing from the catalog.
	ErrUnknownModel = errors.New("model not found")
)

// gatewayError wraps an upstream failure while keeping it matchable.
type gatewayError struct {
	err         error
	rateLimited bool
}

func (e *gatewayError) Error() string {
	return fmt.Sprintf("gateway error: %v", e.err)
}

func (e *gatewayError) Unwrap() error {
	return e.err
}

func (e *gatewayError) Is(target error) bool {
	return target == ErrRateLimited && e.rateLimited
}

func wrapGatewayError(err error) error {
	return &gatewayError{err: err, rateLimited: isThrottle(err)}
}

func isThrottle(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return mentionsTooManyRequests(msg) || strings.Contains(msg, "ThrottlingException")
}

// IsRateLimited reports whether err is a rate-limit class failure.
// Errors from other Generator implementations qualify when they wrap
// ErrRateLimited or mention "Too many requests".
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	return mentionsTooManyRequests(err.Error())
}

func mentionsTooManyRequests(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "too many requests")
}
