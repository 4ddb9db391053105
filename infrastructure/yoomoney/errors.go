package yoomoney

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrMissingToken = errors.New("yoomoney access token is not configured")
	ErrUnauthorized = errors.New("yoomoney rejected the access token")
)

// StatusError is a non-success HTTP response from the provider
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("yoomoney responded with status %d", e.StatusCode)
}

// APIError is an error code returned in a 200 response body
type APIError struct {
	Code string
}

func (e *APIError) Error() string {
	return "yoomoney error: " + e.Code
}

// RateLimitError reports a 429 from the provider
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return "rate limit exceeded"
}

func NewRateLimitError(headers http.Header) *RateLimitError {
	return &RateLimitError{
		RetryAfter: ParseRetryAfter(headers),
	}
}

// HandleErrorResponse maps a non-200 response to an error
func HandleErrorResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return NewRateLimitError(resp.Header)
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return &StatusError{StatusCode: resp.StatusCode}
	}
}

// isRetryable reports whether another attempt could succeed
func isRetryable(err error) bool {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	return !errors.Is(err, ErrUnauthorized) && !errors.Is(err, ErrMissingToken)
}
