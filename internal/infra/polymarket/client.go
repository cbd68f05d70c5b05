package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ZeroNerodaHero/poly-market/internal/infra"
	"github.com/ZeroNerodaHero/poly-market/internal/infra/metrics"
)

// Client talks to the public Polymarket REST surfaces: the Gamma API
// for event/market metadata, the CLOB API for price history, and the
// data API for holder lists. All endpoints are unauthenticated; calls
// share a rate limiter and a circuit breaker per process.
type Client struct {
	gammaURL string
	clobURL  string
	dataURL  string

	httpClient *http.Client
	limiter    *infra.RateLimiter
	breaker    *infra.CircuitBreaker
}

// NewClient creates a REST client from config.
func NewClient(cfg *infra.Config) *Client {
	timeout := time.Duration(cfg.API.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		gammaURL:   cfg.API.GammaURL,
		clobURL:    cfg.API.ClobURL,
		dataURL:    cfg.API.DataURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    infra.NewRateLimiter(cfg.API.Burst, cfg.API.RatePerSec),
		breaker:    infra.NewCircuitBreaker("polymarket-rest"),
	}
}

// EventBySlug fetches event metadata by its URL slug. The Gamma API
// answers with an array; the first element wins.
func (c *Client) EventBySlug(ctx context.Context, slug string) (*Event, error) {
	u := fmt.Sprintf("%s/events?slug=%s", c.gammaURL, url.QueryEscape(slug))
	body, err := c.get(ctx, "gamma_events", u)
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode events for slug %s: %w", slug, err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no event found for slug %s", slug)
	}
	return &events[0], nil
}

// EventByID fetches raw event metadata by numeric id, passed through
// undecoded for proxy-style serving.
func (c *Client) EventByID(ctx context.Context, id string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/events?id=%s", c.gammaURL, url.QueryEscape(id))
	return c.get(ctx, "gamma_events", u)
}

// PriceHistory fetches the full price series for a clob token id.
// Fidelity is the sampling interval in minutes.
func (c *Client) PriceHistory(ctx context.Context, tokenID, fidelity string) (json.RawMessage, error) {
	if fidelity == "" {
		fidelity = "720"
	}
	u := fmt.Sprintf("%s/prices-history?interval=all&market=%s&fidelity=%s",
		c.clobURL, url.QueryEscape(tokenID), url.QueryEscape(fidelity))
	return c.get(ctx, "prices_history", u)
}

// Holders fetches the top holders for a market condition id.
func (c *Client) Holders(ctx context.Context, conditionID string, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 30
	}
	u := fmt.Sprintf("%s/holders?market=%s&limit=%d", c.dataURL, url.QueryEscape(conditionID), limit)
	return c.get(ctx, "holders", u)
}

func (c *Client) get(ctx context.Context, endpoint, u string) ([]byte, error) {
	if !c.breaker.Allow() {
		metrics.RESTErrorsTotal.WithLabelValues(endpoint).Inc()
		return nil, fmt.Errorf("%s: circuit open", endpoint)
	}
	c.limiter.Wait()
	metrics.RESTRequestsTotal.WithLabelValues(endpoint).Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", infra.UserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		metrics.RESTErrorsTotal.WithLabelValues(endpoint).Inc()
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.breaker.RecordFailure()
		metrics.RESTErrorsTotal.WithLabelValues(endpoint).Inc()
		return nil, fmt.Errorf("%s request: status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, fmt.Errorf("%s read body: %w", endpoint, err)
	}

	c.breaker.RecordSuccess()
	return body, nil
}
