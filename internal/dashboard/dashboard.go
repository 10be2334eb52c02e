// Package dashboard is a client for the FDA Data Dashboard API, which
// serves compliance data (inspections, citations, compliance actions)
// that openFDA does not carry. Unlike openFDA it is POST-based with a
// JSON filter body and authenticates with header credentials.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"regnerd/internal/logging"

	"github.com/google/uuid"
)

// DefaultBaseURL is the production Data Dashboard API.
const DefaultBaseURL = "https://api-datadashboard.fda.gov/v1"

// ErrUnauthorized means the Authorization-User/Authorization-Key pair
// was rejected.
var ErrUnauthorized = errors.New("dashboard: unauthorized")

// ErrBadFilter means the API rejected the filter body.
var ErrBadFilter = errors.New("dashboard: bad filter")

// Client talks to one Data Dashboard deployment.
type Client struct {
	baseURL    string
	authUser   string
	authKey    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithCredentials sets the Authorization-User and Authorization-Key headers.
func WithCredentials(user, key string) Option {
	return func(c *Client) {
		c.authUser = user
		c.authKey = key
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient builds a Data Dashboard client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Filter is the POST body the API expects.
type Filter struct {
	Start     int                 `json:"start"`
	Rows      int                 `json:"rows"`
	Filters   map[string][]string `json:"filters,omitempty"`
	Sort      string              `json:"sort,omitempty"`
	SortOrder string              `json:"sortorder,omitempty"`
}

// NewFilter returns a filter scoped to device data with sane paging.
func NewFilter() *Filter {
	return &Filter{
		Start:   1,
		Rows:    25,
		Filters: map[string][]string{"ProductType": {"Devices"}},
	}
}

// Where adds a filter term.
func (f *Filter) Where(field string, values ...string) *Filter {
	f.Filters[field] = values
	return f
}

// SortBy sets the sort field and direction.
func (f *Filter) SortBy(field string, desc bool) *Filter {
	f.Sort = field
	f.SortOrder = "ASC"
	if desc {
		f.SortOrder = "DESC"
	}
	return f
}

// Page sets the 1-based start row and page size.
func (f *Filter) Page(start, rows int) *Filter {
	f.Start = start
	f.Rows = rows
	return f
}

// Response is the envelope every dashboard endpoint returns.
type Response struct {
	Result     []json.RawMessage `json:"result"`
	TotalRows  int               `json:"totalrows"`
	ResultRows int               `json:"resultrows"`
}

// ComplianceAction is one row from the compliance_actions endpoint.
type ComplianceAction struct {
	FirmName         string `json:"LegalName"`
	FEINumber        string `json:"FEINumber"`
	ActionType       string `json:"ActionType"`
	ActionTakenDate  string `json:"ActionTakenDate"`
	State            string `json:"State"`
	CaseInjunctionID string `json:"CaseInjunctionID"`
}

// InspectionCitation is one row from the inspections_citations endpoint.
type InspectionCitation struct {
	FirmName          string `json:"LegalName"`
	FEINumber         string `json:"FEINumber"`
	InspectionID      string `json:"InspectionID"`
	InspectionEndDate string `json:"InspectionEndDate"`
	ActReference      string `json:"ActCFRNumber"`
	ShortDescription  string `json:"ShortDescription"`
}

// Do posts the filter to one dashboard endpoint and returns the raw
// envelope.
func (c *Client) Do(ctx context.Context, endpoint string, f *Filter) (*Response, error) {
	if f == nil {
		f = NewFilter()
	}

	reqID := uuid.NewString()[:8]
	log := logging.WithRequestID(logging.CategoryAPI, reqID)

	body, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to encode filter: %w", err)
	}

	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/") + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authUser != "" {
		req.Header.Set("Authorization-User", c.authUser)
		req.Header.Set("Authorization-Key", c.authKey)
	}

	log.Debug("POST %s rows=%d", url, f.Rows)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		log.Warn("credentials rejected (%d)", resp.StatusCode)
		return nil, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrBadFilter, strings.TrimSpace(string(data)))
	default:
		return nil, fmt.Errorf("dashboard: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("dashboard: failed to decode response: %w", err)
	}
	log.Debug("got %d of %d rows", out.ResultRows, out.TotalRows)
	return &out, nil
}

// ComplianceActions returns compliance actions matching the filter.
func (c *Client) ComplianceActions(ctx context.Context, f *Filter) ([]ComplianceAction, int, error) {
	resp, err := c.Do(ctx, "compliance_actions", f)
	if err != nil {
		return nil, 0, err
	}
	out, err := decodeRows[ComplianceAction](resp.Result)
	return out, resp.TotalRows, err
}

// InspectionsCitations returns inspection citations matching the filter.
func (c *Client) InspectionsCitations(ctx context.Context, f *Filter) ([]InspectionCitation, int, error) {
	resp, err := c.Do(ctx, "inspections_citations", f)
	if err != nil {
		return nil, 0, err
	}
	out, err := decodeRows[InspectionCitation](resp.Result)
	return out, resp.TotalRows, err
}

func decodeRows[T any](rows []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, raw := range rows {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("dashboard: failed to decode row %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
