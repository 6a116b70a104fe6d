package httpx

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
)

// HTTPStatusCoder is implemented by errors that carry an HTTP status.
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// StatusCode extracts an HTTP status from err, or 0 when none is attached.
func StatusCode(err error) int {
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return 0
}

// IsServerError reports whether err carries a 5xx status.
func IsServerError(err error) bool {
	code := StatusCode(err)
	return code >= 500 && code <= 599
}

// IsClientError reports whether err carries a 4xx status. Client errors
// indicate a bad request or bad data and are never worth retrying.
func IsClientError(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code <= 499
}

// IsNetworkError reports whether err is a transport-level failure:
// connection refused/reset, DNS failure, or a timeout. These are retried
// the same way server errors are.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "NetworkError") || strings.Contains(msg, "Failed to fetch")
}
