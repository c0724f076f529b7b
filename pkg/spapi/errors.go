package spapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/singer-io/tap-amazon-sp/pkg/retry"
)

const quotaExceeded = "QuotaExceeded"

// APIError is one entry of the errors list returned by the remote API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ThrottledError is returned when the remote quota for an operation is exhausted
type ThrottledError struct {
	Operation string
	Code      string
	Message   string
	Header    http.Header
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("spapi: %s throttled (%s): %s", e.Operation, e.Code, e.Message)
}

func (e *ThrottledError) Throttled() bool {
	return true
}

// ConnectionError wraps a transport failure; no response was received
type ConnectionError struct {
	Operation string
	Err       error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("spapi: %s connection failed: %s", e.Operation, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// RequestError is any other non successful response
type RequestError struct {
	Operation  string
	StatusCode int
	Errors     []APIError
}

func (e *RequestError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("spapi: %s failed with status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("spapi: %s failed with status %d: %s: %s", e.Operation, e.StatusCode, e.Errors[0].Code, e.Errors[0].Message)
}

func IsThrottled(err error) bool {
	return retry.IsThrottled(err)
}

func IsConnectionFailure(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

func IsUnauthorized(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == http.StatusUnauthorized || reqErr.StatusCode == http.StatusForbidden
	}
	return false
}

// classify maps a non 2xx response to its typed error
func classify(operation string, status int, header http.Header, apiErrors []APIError) error {
	throttled := status == http.StatusTooManyRequests
	for _, apiErr := range apiErrors {
		if apiErr.Code == quotaExceeded {
			throttled = true
		}
	}

	if throttled {
		throttledErr := &ThrottledError{Operation: operation, Code: quotaExceeded, Header: header}
		if len(apiErrors) > 0 {
			throttledErr.Code = apiErrors[0].Code
			throttledErr.Message = apiErrors[0].Message
		}
		return throttledErr
	}

	return &RequestError{Operation: operation, StatusCode: status, Errors: apiErrors}
}
