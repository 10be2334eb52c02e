package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	return NewClient(opts...)
}

func TestComplianceActions(t *testing.T) {
	var gotPath, gotUser, gotKey string
	var gotBody Filter

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser = r.Header.Get("Authorization-User")
		gotKey = r.Header.Get("Authorization-Key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		fmt.Fprint(w, `{
			"totalrows": 1, "resultrows": 1,
			"result": [{"LegalName": "Acme Medical", "ActionType": "Warning Letter", "State": "CA"}]
		}`)
	}), WithCredentials("user@example.com", "secret"))

	f := NewFilter().Where("State", "CA").SortBy("ActionTakenDate", true)
	recs, total, err := c.ComplianceActions(context.Background(), f)
	if err != nil {
		t.Fatalf("ComplianceActions: %v", err)
	}

	if gotPath != "/compliance_actions.json" {
		t.Errorf("path = %s", gotPath)
	}
	if gotUser != "user@example.com" || gotKey != "secret" {
		t.Error("credentials not sent as headers")
	}
	if gotBody.Filters["ProductType"][0] != "Devices" {
		t.Error("device scope filter missing")
	}
	if gotBody.SortOrder != "DESC" {
		t.Errorf("sortorder = %s", gotBody.SortOrder)
	}

	if total != 1 || len(recs) != 1 || recs[0].FirmName != "Acme Medical" {
		t.Errorf("bad result: total=%d recs=%+v", total, recs)
	}
}

func TestInspectionsCitations(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inspections_citations.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"totalrows": 2, "resultrows": 1,
			"result": [{"LegalName": "Acme", "ActCFRNumber": "21 CFR 820.30", "ShortDescription": "Design controls"}]
		}`)
	}))

	recs, total, err := c.InspectionsCitations(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || recs[0].ActReference != "21 CFR 820.30" {
		t.Errorf("bad result: total=%d recs=%+v", total, recs)
	}
}

func TestUnauthorized(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, _, err := c.ComplianceActions(context.Background(), nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestBadFilter(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "unknown filter field"}`)
	}))

	_, err := c.Do(context.Background(), "compliance_actions", NewFilter().Where("Bogus", "x"))
	if !errors.Is(err, ErrBadFilter) {
		t.Fatalf("expected ErrBadFilter, got %v", err)
	}
}

func TestAnonymousSendsNoAuthHeaders(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization-User") != "" {
			t.Error("anonymous client must not send auth headers")
		}
		fmt.Fprint(w, `{"totalrows": 0, "resultrows": 0, "result": []}`)
	}))

	if _, err := c.Do(context.Background(), "compliance_actions", nil); err != nil {
		t.Fatal(err)
	}
}
