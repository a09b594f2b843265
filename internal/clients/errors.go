package clients

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCategory normalizes collaborator failures.
type ErrorCategory string

const (
	ErrorTimeout        ErrorCategory = "timeout"
	ErrorBadData        ErrorCategory = "bad_data"
	ErrorAuthentication ErrorCategory = "authentication"
	ErrorOutage         ErrorCategory = "outage"
	ErrorNotFound       ErrorCategory = "not_found"
	ErrorConflict       ErrorCategory = "conflict"
	ErrorRateLimited    ErrorCategory = "rate_limited"
	ErrorInternal       ErrorCategory = "internal"
)

// ClientError wraps a failed call to an external collaborator.
type ClientError struct {
	Category   ErrorCategory
	Client     string
	Message    string
	StatusCode int
	Underlying error
	// Retryable reports whether the next publisher run may succeed.
	Retryable bool
}

func (e *ClientError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Client, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Client, e.Category, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Underlying
}

func NewClientError(category ErrorCategory, client, message string, underlying error) *ClientError {
	return &ClientError{
		Category:   category,
		Client:     client,
		Message:    message,
		Underlying: underlying,
		Retryable:  category == ErrorTimeout || category == ErrorOutage || category == ErrorRateLimited,
	}
}

func IsRetryable(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

func GetCategory(err error) ErrorCategory {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ErrorInternal
}

// categoryForStatus maps an unexpected HTTP status to a category.
func categoryForStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorAuthentication
	case status == http.StatusNotFound:
		return ErrorNotFound
	case status == http.StatusConflict:
		return ErrorConflict
	case status == http.StatusTooManyRequests:
		return ErrorRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrorTimeout
	case status >= 500:
		return ErrorOutage
	case status >= 400:
		return ErrorBadData
	}
	return ErrorInternal
}
