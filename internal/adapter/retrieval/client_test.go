package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRetrieveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing auth header: %q", r.Header.Get("Authorization"))
		}
		var body searchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(searchResponse{
			Context:   "ctx for " + body.Query,
			Documents: nil,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", time.Second)
	got, err := c.Retrieve(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if got.Text != "ctx for hi" {
		t.Fatalf("unexpected context: %+v", got)
	}
}

func TestRetrieveHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	if _, err := c.Retrieve(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error for 503")
	}
}

func TestRetrieveNotConfigured(t *testing.T) {
	c := NewClient("", "", time.Second)
	_, err := c.Retrieve(context.Background(), "hi")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
