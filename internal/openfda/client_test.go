package openfda

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithTimeout(5 * time.Second)}, opts...)
	return NewClient(opts...)
}

const sample510kBody = `{
	"meta": {"disclaimer": "test", "results": {"skip": 0, "limit": 1, "total": 42}},
	"results": [{
		"k_number": "K241234",
		"applicant": "Acme Medical",
		"device_name": "Acme Infusion Pump",
		"decision_code": "SESE",
		"decision_date": "2024-06-01",
		"product_code": "FRN",
		"zip_code": "55401",
		"clearance_type": "Traditional"
	}]
}`

func TestClient_Search510k(t *testing.T) {
	var gotPath, gotQuery string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, sample510kBody)
	}), WithAPIKey("secret"))

	recs, meta, err := c.Search510k(context.Background(), NewQuery().Search("product_code", "FRN").Limit(1))
	if err != nil {
		t.Fatalf("Search510k: %v", err)
	}

	if gotPath != "/device/510k.json" {
		t.Errorf("path = %s", gotPath)
	}
	for _, want := range []string{"search=product_code:FRN", "limit=1", "api_key=secret"} {
		if !containsStr(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].KNumber != "K241234" || recs[0].DecisionCode != "SESE" {
		t.Errorf("bad record: %+v", recs[0])
	}
	if recs[0].ZipCode != "55401" {
		t.Errorf("zip_code not decoded: %+v", recs[0])
	}
	if meta.Results.Total != 42 {
		t.Errorf("meta total = %d", meta.Results.Total)
	}
}

func TestClient_NoResultsIs404(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"code": "NOT_FOUND", "message": "No matches found!"}}`)
	}))

	env, err := c.Do(context.Background(), Endpoint510k, NewQuery().Search("k_number", "K999999"))
	if !IsNoResults(err) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
	if env == nil || len(env.Results) != 0 {
		t.Error("404 should yield an empty envelope, not nil")
	}
}

func TestClient_BadQueryNotRetried(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"code": "BAD_REQUEST", "message": "Search syntax error"}}`)
	}))

	_, err := c.Do(context.Background(), Endpoint510k, NewQuery().SearchRaw("((("))
	if !errors.Is(err, ErrBadQuery) {
		t.Fatalf("expected ErrBadQuery, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("400 must not be retried, got %d calls", n)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected *APIError in chain")
	}
	if apiErr.Message != "Search syntax error" {
		t.Errorf("server message lost: %q", apiErr.Message)
	}
}

func TestClient_ForbiddenNotRetried(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": "FORBIDDEN", "message": "Invalid api_key"}}`)
	}))

	_, err := c.Do(context.Background(), Endpoint510k, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Error("403 must not be retried")
	}
}

func TestClient_RateLimitRetriesThenSucceeds(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error": {"code": "TOO_MANY_REQUESTS", "message": "API limit exceeded"}}`)
			return
		}
		fmt.Fprint(w, sample510kBody)
	}), WithMaxRetries(2))

	recs, _, err := c.Search510k(context.Background(), NewQuery().Limit(1))
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 record, got %d", len(recs))
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 calls, got %d", atomic.LoadInt32(&calls))
	}
}

func TestClient_RateLimitExhausted(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"code": "TOO_MANY_REQUESTS", "message": "API limit exceeded"}}`)
	}), WithMaxRetries(1))

	_, err := c.Do(context.Background(), Endpoint510k, nil)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// The header rides on the struct, never on the rendered message.
	if strings.Contains(err.Error(), "retry-after") {
		t.Errorf("Retry-After leaked into the error message: %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected *APIError in chain")
	}
	if apiErr.RetryAfter != time.Second {
		t.Errorf("RetryAfter = %v, want 1s", apiErr.RetryAfter)
	}
	if apiErr.Message != "API limit exceeded" {
		t.Errorf("server message altered: %q", apiErr.Message)
	}
}

func TestClient_ServerErrorRetriedOnce(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, sample510kBody)
	}))

	_, _, err := c.Search510k(context.Background(), NewQuery().Limit(1))
	if err != nil {
		t.Fatalf("expected recovery after one 502, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected exactly 2 calls, got %d", atomic.LoadInt32(&calls))
	}
}

func TestClient_UnknownFieldRejectedLocally(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	_, err := c.Do(context.Background(), Endpoint510k, NewQuery().Search("nonsense_field", "x"))
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("invalid field must be rejected before any HTTP request")
	}
}

func TestClient_CountBy(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !containsStr(r.URL.RawQuery, "count=decision_code") {
			t.Errorf("missing count param: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"meta": {"results": {"total": 2}}, "results": [
			{"term": "SESE", "count": 1200},
			{"term": "SN", "count": 34}
		]}`)
	}))

	buckets, err := c.CountBy(context.Background(), Endpoint510k, nil, "decision_code")
	if err != nil {
		t.Fatalf("CountBy: %v", err)
	}
	if len(buckets) != 2 || buckets[0].Term != "SESE" || buckets[0].Count != 1200 {
		t.Errorf("bad buckets: %+v", buckets)
	}
}

type memCache struct {
	m    map[string][]byte
	hits int
	puts int
}

func (m *memCache) Get(key string) ([]byte, bool) {
	b, ok := m.m[key]
	if ok {
		m.hits++
	}
	return b, ok
}

func (m *memCache) Put(key string, body []byte) error {
	m.m[key] = body
	m.puts++
	return nil
}

func TestClient_CacheRoundTrip(t *testing.T) {
	var calls int32
	mc := &memCache{m: map[string][]byte{}}
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, sample510kBody)
	}), WithCache(mc))

	q := NewQuery().Search("product_code", "FRN").Limit(1)
	if _, err := c.Do(context.Background(), Endpoint510k, q); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Do(context.Background(), Endpoint510k, NewQuery().Search("product_code", "FRN").Limit(1)); err != nil {
		t.Fatal(err)
	}

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("second request should hit the cache, got %d HTTP calls", atomic.LoadInt32(&calls))
	}
	if mc.puts != 1 || mc.hits != 1 {
		t.Errorf("cache puts=%d hits=%d", mc.puts, mc.hits)
	}
}

func TestClient_Ping(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"code": "NOT_FOUND", "message": "No matches found!"}}`)
	}))

	// Empty dataset is still a healthy endpoint.
	if err := c.Ping(context.Background(), Endpoint510k); err != nil {
		t.Errorf("Ping should treat 404 as healthy, got %v", err)
	}
}

func containsStr(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
