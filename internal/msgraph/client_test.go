package msgraph_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tiliavir/flightlog/internal/msgraph"
)

func TestClient_CreateEvent(t *testing.T) {
	var got msgraph.Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/me/events" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		got.ID = "AAMk-1"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	created, err := c.CreateEvent(context.Background(), msgraph.Event{Subject: "Flight", IsAllDay: true})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if created.ID != "AAMk-1" {
		t.Errorf("ID = %q", created.ID)
	}
	if got.Subject != "Flight" || !got.IsAllDay {
		t.Errorf("server received %+v", got)
	}
}

func TestClient_UpdateEvent(t *testing.T) {
	var path, method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	if err := c.UpdateEvent(context.Background(), "evt-1", msgraph.Event{Subject: "Flight"}); err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if method != http.MethodPatch || path != "/me/events/evt-1" {
		t.Errorf("request = %s %s", method, path)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"ErrorAccessDenied"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	if _, err := c.CreateEvent(context.Background(), msgraph.Event{}); err == nil {
		t.Error("expected error for 403 response")
	}
}
