package polymarket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZeroNerodaHero/poly-market/internal/infra"
)

func testClient(serverURL string) *Client {
	cfg := infra.DefaultConfig()
	cfg.API.GammaURL = serverURL
	cfg.API.ClobURL = serverURL
	cfg.API.DataURL = serverURL
	cfg.API.RatePerSec = 1000
	cfg.API.Burst = 100
	return NewClient(cfg)
}

func TestEventBySlug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("slug"); got != "fed-decision" {
			t.Errorf("slug = %s", got)
		}
		w.Write([]byte(`[{"id":"1","slug":"fed-decision","title":"Fed decision","markets":[]}]`))
	}))
	defer server.Close()

	ev, err := testClient(server.URL).EventBySlug(context.Background(), "fed-decision")
	if err != nil {
		t.Fatalf("EventBySlug: %v", err)
	}
	if ev.ID != "1" || ev.Title != "Fed decision" {
		t.Errorf("event = %+v", ev)
	}
}

func TestEventBySlugNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	if _, err := testClient(server.URL).EventBySlug(context.Background(), "nope"); err == nil {
		t.Error("expected error for empty result")
	}
}

func TestPriceHistoryQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("interval") != "all" || q.Get("market") != "7045861177242" || q.Get("fidelity") != "60" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"history":[{"t":1730600000,"p":0.32}]}`))
	}))
	defer server.Close()

	raw, err := testClient(server.URL).PriceHistory(context.Background(), "7045861177242", "60")
	if err != nil {
		t.Fatalf("PriceHistory: %v", err)
	}
	if len(raw) == 0 {
		t.Error("empty payload")
	}
}

func TestHoldersDefaultsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "30" {
			t.Errorf("limit = %s, want default 30", got)
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	if _, err := testClient(server.URL).Holders(context.Background(), "0xcond", 0); err != nil {
		t.Fatalf("Holders: %v", err)
	}
}

func TestGetSurfacesUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream sad", http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := testClient(server.URL).EventByID(context.Background(), "1"); err == nil {
		t.Error("expected error for non-200 status")
	}
}
