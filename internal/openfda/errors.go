package openfda

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for openFDA outcomes callers branch on.
var (
	// ErrNoResults means the query matched nothing. openFDA reports this
	// as HTTP 404 with a NOT_FOUND body; it is an empty result, not a
	// failure, so callers usually print "no results" and exit 0.
	ErrNoResults = errors.New("openfda: no matching results")

	// ErrBadQuery means the server rejected the search syntax (HTTP 400).
	ErrBadQuery = errors.New("openfda: query rejected")

	// ErrForbidden means the API key was rejected (HTTP 403).
	ErrForbidden = errors.New("openfda: API key rejected")

	// ErrRateLimited means retries on HTTP 429 were exhausted.
	ErrRateLimited = errors.New("openfda: rate limit exceeded")

	// ErrUnknownEndpoint means the endpoint is not in the registry.
	ErrUnknownEndpoint = errors.New("openfda: unknown endpoint")

	// ErrUnknownField means a search field is not queryable on the endpoint.
	ErrUnknownField = errors.New("openfda: unknown search field")
)

// IsNoResults reports whether err means an empty result set.
func IsNoResults(err error) bool {
	return errors.Is(err, ErrNoResults)
}

// APIError carries the structured error body openFDA returns alongside
// non-200 statuses.
type APIError struct {
	StatusCode int
	Code       string // e.g. NOT_FOUND, BAD_REQUEST
	Message    string

	// RetryAfter is the server-requested wait from a 429 Retry-After
	// header; zero when absent. Not part of the rendered message.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("openfda: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("openfda: HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto the matching sentinel so callers can
// use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 404:
		return ErrNoResults
	case 400:
		return ErrBadQuery
	case 403:
		return ErrForbidden
	case 429:
		return ErrRateLimited
	default:
		return nil
	}
}
