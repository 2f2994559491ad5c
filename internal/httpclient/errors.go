package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// APIError is the uniform shape of transport and parse failures.
type APIError struct {
	// Code is the errno of a transport failure, the HTTP status of an error
	// response, or -1 for a parse failure. Zero means "not available".
	Code    int    `json:"code,omitempty"`
	Name    string `json:"error"`
	Message string `json:"message"`

	cause error
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Unwrap exposes the underlying transport error, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *APIError with the same code, name and message.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Name == t.Name && e.Message == t.Message
}

// ErrParse is the sentinel for a response body that is not valid JSON,
// including an empty body on an otherwise successful response.
// Compare with errors.Is.
var ErrParse = &APIError{
	Code:    -1,
	Name:    "SyntaxError",
	Message: "Unable to parse response as JSON",
}

func parseError(cause error) *APIError {
	return &APIError{
		Code:    ErrParse.Code,
		Name:    ErrParse.Name,
		Message: ErrParse.Message,
		cause:   cause,
	}
}

// StatusError carries the decoded body of a non-2xx response. E is the error
// envelope the caller expects from the server.
type StatusError[E any] struct {
	StatusCode int
	Body       E
}

// Error implements error. If the body is itself an error its message is used.
func (e *StatusError[E]) Error() string {
	if err, ok := any(e.Body).(error); ok {
		return err.Error()
	}
	if err, ok := any(&e.Body).(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("unexpected status %d: %+v", e.StatusCode, e.Body)
}

// transportError converts a failed round trip into an APIError named after
// the socket-level failure.
func transportError(err error) *APIError {
	apiErr := &APIError{
		Name:    transportErrorName(err),
		Message: err.Error(),
		cause:   err,
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		apiErr.Code = int(errno)
	}
	return apiErr
}

func transportErrorName(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsNotFound:
			return "ENOTFOUND"
		case dnsErr.IsTimeout:
			return "ETIMEDOUT"
		default:
			return "EAI_AGAIN"
		}
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "ECONNREFUSED"
	case errors.Is(err, syscall.ECONNRESET):
		return "ECONNRESET"
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return "EHOSTUNREACH"
	case errors.Is(err, context.Canceled):
		return "ECANCELED"
	case errors.Is(err, context.DeadlineExceeded):
		return "ETIMEDOUT"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "ETIMEDOUT"
	}

	inner := err
	for {
		next := errors.Unwrap(inner)
		if next == nil {
			break
		}
		inner = next
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", inner), "*")
}
