package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ZeroNerodaHero/poly-market/internal/infra"
	"github.com/ZeroNerodaHero/poly-market/internal/infra/polymarket"
	"github.com/ZeroNerodaHero/poly-market/internal/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config *infra.Config
	Store  *storage.MetadataStore
	Client *polymarket.Client
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, cache DB).
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping poly-market...")

	// 1. Load Config (Dynamic Path Resolution)
	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Metadata cache (WAL SQLite under the workspace dir)
	workDir := infra.WorkspaceDir()
	dataDir := filepath.Join(workDir, "data")
	if err := infra.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")
	store, err := storage.NewMetadataStore(dbPath)
	if err != nil {
		return err
	}
	b.Store = store
	slog.Info("✅ Metadata cache initialized (WAL-mode)", "path", dbPath)

	// 4. REST client for the venue's Gamma/CLOB/Data APIs
	b.Client = polymarket.NewClient(cfg)
	slog.Info("✅ Polymarket REST client ready")

	return nil
}

// ResolveScope returns the asset ids the feed should subscribe to. An
// explicit asset_ids list in the config wins; otherwise the event slug
// is resolved through the Gamma API and all open instruments of that
// event are tracked.
func (b *Bootstrap) ResolveScope(ctx context.Context) ([]string, []polymarket.Instrument, error) {
	cfg := b.Config
	if len(cfg.Feed.AssetIDs) > 0 {
		instruments := make([]polymarket.Instrument, 0, len(cfg.Feed.AssetIDs))
		for _, id := range cfg.Feed.AssetIDs {
			instruments = append(instruments, polymarket.Instrument{Name: id, AssetID: id})
		}
		return cfg.Feed.AssetIDs, instruments, nil
	}

	if cfg.Feed.EventSlug == "" {
		return nil, nil, fmt.Errorf("no subscription scope: set feed.event_slug or feed.asset_ids")
	}

	ev, err := b.Client.EventBySlug(ctx, cfg.Feed.EventSlug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve event %q: %w", cfg.Feed.EventSlug, err)
	}

	instruments := ev.Instruments()
	if len(instruments) == 0 {
		return nil, nil, fmt.Errorf("event %q has no open instruments", cfg.Feed.EventSlug)
	}

	ids := make([]string, 0, len(instruments))
	for _, in := range instruments {
		ids = append(ids, in.AssetID)
	}
	slog.Info("✅ Subscription scope resolved",
		slog.String("slug", cfg.Feed.EventSlug),
		slog.String("event", ev.Title),
		slog.Int("instruments", len(instruments)))
	return ids, instruments, nil
}

// Close releases bootstrap-owned resources.
func (b *Bootstrap) Close() {
	if b.Store != nil {
		if err := b.Store.Close(); err != nil {
			slog.Warn("Cache close failed", slog.Any("error", err))
		}
	}
}
