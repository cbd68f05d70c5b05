package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ZeroNerodaHero/poly-market/internal/book"
	"github.com/ZeroNerodaHero/poly-market/internal/infra"
	"github.com/ZeroNerodaHero/poly-market/internal/infra/metrics"
)

// State is the connection manager lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateSubscribed
	StateReceiving
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateSubscribed:
		return "SUBSCRIBED"
	case StateReceiving:
		return "RECEIVING"
	case StateClosed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

// Options tunes a Manager beyond its defaults.
type Options struct {
	Reconnect    bool
	ReadTimeout  time.Duration
	PingInterval time.Duration
}

// Manager owns one market-data stream session. On connect it sends a
// single subscription for a fixed set of asset ids; every inbound
// message is decoded, classified, and applied to the registry it owns.
// The registry lives and dies with the session.
type Manager struct {
	base     *infra.BaseWSWorker
	url      string
	assetIDs []string
	registry *book.Registry

	state    atomic.Int32
	stopOnce sync.Once
}

// NewManager creates a manager for the given subscription scope. The
// scope is fixed for the lifetime of the connection; there is no
// dynamic add/remove of instruments mid-session.
func NewManager(url string, assetIDs []string, registry *book.Registry, opts Options) *Manager {
	m := &Manager{
		url:      url,
		assetIDs: assetIDs,
		registry: registry,
	}
	m.base = infra.NewBaseWSWorker(m)
	m.base.Reconnect = opts.Reconnect
	if opts.ReadTimeout > 0 {
		m.base.ReadTimeout = opts.ReadTimeout
	}
	if opts.PingInterval > 0 {
		m.base.PingInterval = opts.PingInterval
	}
	m.state.Store(int32(StateIdle))
	return m
}

// Registry exposes the session's book registry for read-side use.
func (m *Manager) Registry() *book.Registry { return m.registry }

// State returns the current lifecycle state.
func (m *Manager) State() State { return State(m.state.Load()) }

// Start opens the transport. The manager transitions to Connecting; the
// subscribe request is sent from the transport-open callback.
func (m *Manager) Start(ctx context.Context) {
	m.state.Store(int32(StateConnecting))
	m.base.Start(ctx)

	go func() {
		<-m.base.Done()
		m.state.Store(int32(StateClosed))
	}()
}

// Stop tears the session down: the transport is closed and no further
// messages are dispatched. In-flight processing completes first.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.base.Stop()
		m.state.Store(int32(StateClosed))
	})
}

// Done is closed when the session reaches its terminal state, whether
// by Stop or by transport failure with reconnection off.
func (m *Manager) Done() <-chan struct{} { return m.base.Done() }

func (m *Manager) ID() string     { return "POLYMARKET_MARKET" }
func (m *Manager) GetURL() string { return m.url }

// OnConnect sends the one subscription request for the session scope.
func (m *Manager) OnConnect(ctx context.Context, conn *websocket.Conn) error {
	if State(m.state.Load()) == StateSubscribed || State(m.state.Load()) == StateReceiving {
		// Re-subscribe after a reconnect; fresh snapshots rebuild state.
		metrics.WSReconnectsTotal.Inc()
	}

	req := subscribeRequest{AssetIDs: m.assetIDs, Type: "market"}
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if err := m.base.Write(websocket.TextMessage, b); err != nil {
		return err
	}

	m.state.Store(int32(StateSubscribed))
	slog.Info("Market feed subscribed", slog.Int("assets", len(m.assetIDs)))
	return nil
}

// OnMessage decodes one inbound message envelope (an array of event
// objects) and dispatches each through the classifier. Processing is
// synchronous and bounded; messages arrive and apply strictly in order.
func (m *Manager) OnMessage(ctx context.Context, msg []byte) {
	m.state.Store(int32(StateReceiving))
	metrics.FeedMessagesTotal.Inc()

	var envelope []json.RawMessage
	if err := json.Unmarshal(msg, &envelope); err != nil {
		// PONG frames and other non-envelope payloads land here.
		if string(msg) != "PONG" {
			slog.Debug("Non-envelope message dropped", slog.Int("bytes", len(msg)))
		}
		return
	}

	for _, raw := range envelope {
		switch ev := Classify(raw).(type) {
		case *BookEvent:
			m.registry.ApplySnapshot(ev.AssetID, ev.Market, ev.Timestamp, ev.Hash, ev.Bids, ev.Asks)
			metrics.FeedEventsTotal.WithLabelValues("book").Inc()
			metrics.BooksTracked.Set(float64(m.registry.Len()))
			markEventApplied(ev.AssetID, ev.Timestamp)

		case *PriceChangeEvent:
			if !m.registry.ApplyIncremental(ev.AssetID, ev.Timestamp, ev.Hash, ev.Changes) {
				// No snapshot yet for this instrument; the batch is
				// dropped, not buffered. A snapshot arrives on its own
				// and later batches apply cleanly.
				metrics.OrphanDropsTotal.Inc()
				slog.Debug("Orphan price change dropped", slog.String("asset_id", ev.AssetID))
				continue
			}
			metrics.FeedEventsTotal.WithLabelValues("price_change").Inc()
			markEventApplied(ev.AssetID, ev.Timestamp)

		default:
			metrics.UnrecognizedEventsTotal.Inc()
			slog.Warn("Unrecognized stream event dropped", slog.Int("bytes", len(raw)))
		}
	}
}

// OnPing keeps the upstream connection alive; the venue expects a
// literal PING text frame.
func (m *Manager) OnPing(ctx context.Context, conn *websocket.Conn) error {
	return m.base.Write(websocket.TextMessage, []byte("PING"))
}

func markEventApplied(assetID, timestamp string) {
	// The venue timestamp is unix milliseconds as a string; skip the
	// gauge rather than guess when it doesn't parse.
	var ms int64
	for _, c := range timestamp {
		if c < '0' || c > '9' {
			return
		}
		ms = ms*10 + int64(c-'0')
	}
	if ms > 0 {
		metrics.LastEventUnixMs.WithLabelValues(assetID).Set(float64(ms))
	}
}
