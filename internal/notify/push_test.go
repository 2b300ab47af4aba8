package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	p := New(srv.URL, "server-key")
	p.Send(context.Background(), "dealer-DLR-001", "Order ORD-1 submitted", "Total 4250 via GCash.")

	if got["to"] != "dealer-DLR-001" {
		t.Fatalf("recipient = %v", got["to"])
	}
	n := got["notification"].(map[string]any)
	if n["title"] != "Order ORD-1 submitted" {
		t.Fatalf("notification = %v", n)
	}
	if auth != "key=server-key" {
		t.Fatalf("auth = %q", auth)
	}
}

func TestSend_FailuresAreSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	// Must not panic or surface anything.
	New(srv.URL, "").Send(context.Background(), "t", "title", "body")
}

func TestSend_NilPusher(t *testing.T) {
	var p *Pusher
	p.Send(context.Background(), "t", "title", "body") // no-op
	if New("", "key") != nil {
		t.Fatal("unconfigured endpoint must yield a nil pusher")
	}
}
