// Package openfda implements a read-only client for the openFDA device
// datasets (https://api.fda.gov). It covers query building, field
// validation against per-endpoint dictionaries, HTTP error mapping, and
// bounded retry on rate limits.
package openfda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"regnerd/internal/logging"

	"github.com/google/uuid"
)

// DefaultBaseURL is FDA's public API host.
const DefaultBaseURL = "https://api.fda.gov"

// minRequestSpacing keeps bursts under the per-minute quota. 250ms keeps
// an anonymous client at ~240 requests/minute worst case, the keyed tier.
const minRequestSpacing = 250 * time.Millisecond

// ResponseCache is the optional cache hook. Implemented by
// internal/cache; a nil cache disables caching.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, body []byte) error
}

// Client is an openFDA API client. Safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	cache      ResponseCache

	mu          sync.Mutex
	lastRequest time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the API key (empty = anonymous tier).
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL overrides the API host (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMaxRetries caps retry attempts on 429 responses.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithCache attaches a response cache.
func WithCache(rc ResponseCache) Option {
	return func(c *Client) { c.cache = rc }
}

// NewClient creates an openFDA client with sensible defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		maxRetries: 3,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes a query against an endpoint and returns the raw envelope.
//
// Error mapping: 404 returns an empty envelope with ErrNoResults wrapped;
// 400/403 fail immediately; 429 retries with backoff (honoring
// Retry-After) up to maxRetries, then fails with ErrRateLimited wrapped;
// 5xx gets a single retry.
func (c *Client) Do(ctx context.Context, endpoint Endpoint, q *Query) (*Envelope, error) {
	if !endpoint.Known() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, endpoint)
	}
	if q == nil {
		q = NewQuery()
	}
	if err := q.ValidateFields(endpoint); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()[:8]
	reqLog := logging.WithRequestID(logging.CategoryAPI, requestID).
		WithField("endpoint", string(endpoint))

	// Cache lookup (the key never contains the API key).
	cacheKey := q.Key(endpoint)
	if c.cache != nil && cacheKey != "" {
		if body, ok := c.cache.Get(cacheKey); ok {
			reqLog.Debug("cache hit")
			return decodeEnvelope(body)
		}
	}

	reqURL, err := c.buildURL(endpoint, q)
	if err != nil {
		return nil, err
	}

	// Auto-apply timeout if context has no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	start := time.Now()
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt-1)) * time.Second
			if ra, ok := retryAfter(lastErr); ok {
				wait = ra
			}
			reqLog.Warn("retrying in %v (attempt %d/%d): %v", wait, attempt, c.maxRetries, lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		c.throttle()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			reqLog.Info("%d in %v (%d bytes)", resp.StatusCode, time.Since(start), len(body))
			if c.cache != nil && cacheKey != "" {
				if err := c.cache.Put(cacheKey, body); err != nil {
					reqLog.Warn("cache put failed: %v", err)
				}
			}
			return decodeEnvelope(body)

		case resp.StatusCode == http.StatusNotFound:
			// Empty result set, not a failure.
			reqLog.Info("no results in %v", time.Since(start))
			apiErr := parseAPIError(resp.StatusCode, body)
			return &Envelope{}, fmt.Errorf("%s: %w", endpoint, apiErr)

		case resp.StatusCode == http.StatusTooManyRequests:
			apiErr := parseAPIError(resp.StatusCode, body)
			apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
			lastErr = apiErr
			continue

		case resp.StatusCode >= 500:
			// Transient server fault: one extra shot, even with retries off.
			lastErr = parseAPIError(resp.StatusCode, body)
			if attempt >= 1 {
				reqLog.Error("server error after %v: %v", time.Since(start), lastErr)
				return nil, lastErr
			}
			continue

		default:
			// 400, 403 and anything else: not retryable.
			apiErr := parseAPIError(resp.StatusCode, body)
			reqLog.Error("%v", apiErr)
			return nil, apiErr
		}
	}

	reqLog.Error("retries exhausted after %v: %v", time.Since(start), lastErr)
	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}

// buildURL assembles the request URL. The search expression uses literal
// '+' separators, which url.Values would escape, so it is concatenated
// manually after encoding the rest.
func (c *Client) buildURL(endpoint Endpoint, q *Query) (string, error) {
	v, err := q.Values()
	if err != nil {
		return "", err
	}
	if c.apiKey != "" {
		v.Set("api_key", c.apiKey)
	}

	u := c.baseURL + "/" + endpoint.Path() + "?"
	if s := q.searchString(); s != "" {
		u += "search=" + escapeSearch(s)
		if len(v) > 0 {
			u += "&"
		}
	}
	return u + v.Encode(), nil
}

// escapeSearch percent-encodes a search expression while preserving the
// '+', ':', '[', ']', and '"' characters openFDA's parser expects.
func escapeSearch(s string) string {
	const keep = `+:[]"_.*-`
	var b []byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b = append(b, ch)
		case containsByte(keep, ch):
			b = append(b, ch)
		case ch == ' ':
			b = append(b, '%', '2', '0')
		default:
			b = append(b, fmt.Sprintf("%%%02X", ch)...)
		}
	}
	return string(b)
}

func containsByte(s string, ch byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ch {
			return true
		}
	}
	return false
}

// throttle spaces consecutive requests.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elapsed := time.Since(c.lastRequest); elapsed < minRequestSpacing {
		time.Sleep(minRequestSpacing - elapsed)
	}
	c.lastRequest = time.Now()
}

func decodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &env, nil
}

// parseAPIError builds an APIError from a non-200 body, tolerating
// non-JSON bodies.
func parseAPIError(status int, body []byte) *APIError {
	var eb apiErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		return &APIError{StatusCode: status, Code: eb.Error.Code, Message: eb.Error.Message}
	}
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &APIError{StatusCode: status, Message: msg}
}

// retryAfter extracts the server-requested wait from a 429 APIError.
func retryAfter(err error) (time.Duration, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		return 0, false
	}
	if apiErr.RetryAfter <= 0 {
		return 0, false
	}
	// Cap so a hostile header cannot park the CLI.
	wait := apiErr.RetryAfter
	if wait > 60*time.Second {
		wait = 60 * time.Second
	}
	return wait, true
}

// parseRetryAfter reads a Retry-After header in seconds form; zero when
// absent or unparsable.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// =============================================================================
// TYPED HELPERS
// =============================================================================

// Search510k runs a query against device/510k and decodes the records.
func (c *Client) Search510k(ctx context.Context, q *Query) ([]K510, *Meta, error) {
	env, err := c.Do(ctx, Endpoint510k, q)
	if err != nil {
		return nil, nil, err
	}
	out := make([]K510, 0, len(env.Results))
	for _, raw := range env.Results {
		var rec K510
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, fmt.Errorf("failed to decode 510(k) record: %w", err)
		}
		out = append(out, rec)
	}
	return out, &env.Meta, nil
}

// SearchClassification runs a query against device/classification.
func (c *Client) SearchClassification(ctx context.Context, q *Query) ([]Classification, *Meta, error) {
	env, err := c.Do(ctx, EndpointClassification, q)
	if err != nil {
		return nil, nil, err
	}
	out := make([]Classification, 0, len(env.Results))
	for _, raw := range env.Results {
		var rec Classification
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, fmt.Errorf("failed to decode classification record: %w", err)
		}
		out = append(out, rec)
	}
	return out, &env.Meta, nil
}

// SearchEnforcement runs a query against device/enforcement.
func (c *Client) SearchEnforcement(ctx context.Context, q *Query) ([]Enforcement, *Meta, error) {
	env, err := c.Do(ctx, EndpointEnforcement, q)
	if err != nil {
		return nil, nil, err
	}
	out := make([]Enforcement, 0, len(env.Results))
	for _, raw := range env.Results {
		var rec Enforcement
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, fmt.Errorf("failed to decode enforcement record: %w", err)
		}
		out = append(out, rec)
	}
	return out, &env.Meta, nil
}

// SearchEvents runs a query against device/event.
func (c *Client) SearchEvents(ctx context.Context, q *Query) ([]Event, *Meta, error) {
	env, err := c.Do(ctx, EndpointEvent, q)
	if err != nil {
		return nil, nil, err
	}
	out := make([]Event, 0, len(env.Results))
	for _, raw := range env.Results {
		var rec Event
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, fmt.Errorf("failed to decode event record: %w", err)
		}
		out = append(out, rec)
	}
	return out, &env.Meta, nil
}

// CountBy runs a count query on the given field and decodes the buckets.
func (c *Client) CountBy(ctx context.Context, endpoint Endpoint, q *Query, field string) ([]CountResult, error) {
	if q == nil {
		q = NewQuery()
	}
	q.Count(field)

	env, err := c.Do(ctx, endpoint, q)
	if err != nil {
		return nil, err
	}
	out := make([]CountResult, 0, len(env.Results))
	for _, raw := range env.Results {
		var bucket CountResult
		if err := json.Unmarshal(raw, &bucket); err != nil {
			return nil, fmt.Errorf("failed to decode count bucket: %w", err)
		}
		out = append(out, bucket)
	}
	return out, nil
}

// Ping issues a one-record request to verify an endpoint is reachable.
func (c *Client) Ping(ctx context.Context, endpoint Endpoint) error {
	_, err := c.Do(ctx, endpoint, NewQuery().Limit(1))
	if err != nil && !IsNoResults(err) {
		return err
	}
	return nil
}
