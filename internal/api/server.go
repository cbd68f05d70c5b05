package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ZeroNerodaHero/poly-market/internal/book"
	"github.com/ZeroNerodaHero/poly-market/internal/infra/metrics"
	"github.com/ZeroNerodaHero/poly-market/internal/infra/polymarket"
	"github.com/ZeroNerodaHero/poly-market/internal/storage"
)

// eventFetcher is the slice of the REST client the server needs.
type eventFetcher interface {
	EventBySlug(ctx context.Context, slug string) (*polymarket.Event, error)
	EventByID(ctx context.Context, id string) (json.RawMessage, error)
	PriceHistory(ctx context.Context, tokenID, fidelity string) (json.RawMessage, error)
	Holders(ctx context.Context, conditionID string, limit int) (json.RawMessage, error)
}

// Server exposes the live order books and the upstream metadata proxies
// over HTTP.
type Server struct {
	client   eventFetcher
	store    *storage.MetadataStore
	registry *book.Registry

	depthLimit int
	cacheTTL   time.Duration
}

// New creates a Server. store may be nil to disable metadata caching.
func New(client eventFetcher, store *storage.MetadataStore, registry *book.Registry, depthLimit int, cacheTTL time.Duration) *Server {
	return &Server{
		client:     client,
		store:      store,
		registry:   registry,
		depthLimit: depthLimit,
		cacheTTL:   cacheTTL,
	}
}

// Routes builds the HTTP handler. The metrics registry may be nil when
// metrics are not served.
func (s *Server) Routes(promReg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/event", s.handleEvent)
	mux.HandleFunc("/api/event_by_id", s.handleEventByID)
	mux.HandleFunc("/api/pricehistory", s.handlePriceHistory)
	mux.HandleFunc("/api/holders", s.handleHolders)
	mux.HandleFunc("/api/book", s.handleBook)
	mux.HandleFunc("/api/books", s.handleBooks)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if promReg != nil {
		mux.Handle("/metrics", metrics.Handler(promReg))
	}
	return mux
}

// handleEvent serves Gamma event metadata by slug, cache-aside.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		httpError(w, http.StatusBadRequest, "slug parameter is required")
		return
	}

	key := "event:" + slug
	if s.store != nil {
		if cached, ok, err := s.store.GetFresh(r.Context(), key, s.cacheTTL); err == nil && ok {
			metrics.CacheHitsTotal.Inc()
			writeRawJSON(w, []byte(cached))
			return
		}
		metrics.CacheMissesTotal.Inc()
	}

	ev, err := s.client.EventBySlug(r.Context(), slug)
	if err != nil {
		httpError(w, http.StatusBadGateway, "failed to fetch event data")
		slog.Warn("Event fetch failed", slog.String("slug", slug), slog.Any("error", err))
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "encode failure")
		return
	}
	if s.store != nil {
		if err := s.store.Put(r.Context(), key, string(payload), time.Now()); err != nil {
			slog.Warn("Cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	writeRawJSON(w, payload)
}

// handleEventByID serves Gamma event metadata by numeric id,
// cache-aside like the slug route.
func (s *Server) handleEventByID(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpError(w, http.StatusBadRequest, "id parameter is required")
		return
	}

	key := "event_id:" + id
	if s.store != nil {
		if cached, ok, err := s.store.GetFresh(r.Context(), key, s.cacheTTL); err == nil && ok {
			metrics.CacheHitsTotal.Inc()
			writeRawJSON(w, []byte(cached))
			return
		}
		metrics.CacheMissesTotal.Inc()
	}

	raw, err := s.client.EventByID(r.Context(), id)
	if err != nil {
		httpError(w, http.StatusBadGateway, "failed to fetch event data")
		slog.Warn("Event fetch failed", slog.String("id", id), slog.Any("error", err))
		return
	}

	if s.store != nil {
		if err := s.store.Put(r.Context(), key, string(raw), time.Now()); err != nil {
			slog.Warn("Cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	writeRawJSON(w, raw)
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	tokenID := r.URL.Query().Get("market")
	if tokenID == "" {
		httpError(w, http.StatusBadRequest, "market parameter is required")
		return
	}
	fidelity := r.URL.Query().Get("fidelity")

	raw, err := s.client.PriceHistory(r.Context(), tokenID, fidelity)
	if err != nil {
		httpError(w, http.StatusBadGateway, "failed to fetch price history")
		return
	}
	writeRawJSON(w, raw)
}

func (s *Server) handleHolders(w http.ResponseWriter, r *http.Request) {
	market := r.URL.Query().Get("market")
	if market == "" {
		httpError(w, http.StatusBadRequest, "market parameter is required")
		return
	}

	raw, err := s.client.Holders(r.Context(), market, 30)
	if err != nil {
		httpError(w, http.StatusBadGateway, "failed to fetch holders")
		return
	}
	writeRawJSON(w, raw)
}

// bookResponse is the projection of one live book.
type bookResponse struct {
	Market    string     `json:"market"`
	AssetID   string     `json:"asset_id"`
	Timestamp string     `json:"timestamp"`
	Hash      string     `json:"hash"`
	Rows      []book.Row `json:"rows"`
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	assetID := r.URL.Query().Get("asset_id")
	if assetID == "" {
		httpError(w, http.StatusBadRequest, "asset_id parameter is required")
		return
	}

	depth := s.depthLimit
	if v := r.URL.Query().Get("depth"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			depth = n
		}
	}

	b, ok := s.registry.Snapshot(assetID)
	if !ok {
		httpError(w, http.StatusNotFound, "no book for asset")
		return
	}

	writeJSON(w, bookResponse{
		Market:    b.MarketID,
		AssetID:   b.AssetID,
		Timestamp: b.Timestamp,
		Hash:      b.Hash,
		Rows:      book.Project(b, depth),
	})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"asset_ids": s.registry.AssetIDs()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Response encode failed", slog.Any("error", err))
	}
}

func writeRawJSON(w http.ResponseWriter, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
