package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZeroNerodaHero/poly-market/internal/api"
	"github.com/ZeroNerodaHero/poly-market/internal/app"
	"github.com/ZeroNerodaHero/poly-market/internal/book"
	"github.com/ZeroNerodaHero/poly-market/internal/feed"
	"github.com/ZeroNerodaHero/poly-market/internal/infra/metrics"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Close()

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := bootstrap.Config
	promReg := metrics.Init()

	// 4. Resolve subscription scope (explicit asset ids or event slug)
	assetIDs, instruments, err := bootstrap.ResolveScope(ctx)
	if err != nil {
		slog.Error("❌ Scope resolution failed", slog.Any("error", err))
		os.Exit(1)
	}
	for _, in := range instruments {
		slog.Info("📈 Tracking instrument", slog.String("name", in.Name), slog.String("asset_id", in.AssetID))
	}

	// 5. Book registry + market feed (Gateway)
	registry := book.NewRegistry(cfg.Book.PricePlaces)
	manager := feed.NewManager(cfg.API.WSURL, assetIDs, registry, feed.Options{
		Reconnect:    cfg.Feed.Reconnect,
		ReadTimeout:  time.Duration(cfg.Feed.ReadTimeoutSec) * time.Second,
		PingInterval: time.Duration(cfg.Feed.PingIntervalSec) * time.Second,
	})
	manager.Start(ctx)
	defer manager.Stop()
	slog.InfoContext(ctx, "✅ Market feed started", slog.Int("assets", len(assetIDs)))

	// Keep the tracked-books gauge current.
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.BooksTracked.Set(float64(registry.Len()))
			}
		}
	}()

	// 6. HTTP API
	server := api.New(bootstrap.Client, bootstrap.Store, registry,
		cfg.Book.DepthLimit, time.Duration(cfg.Cache.TTLSec)*time.Second)
	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Routes(promReg),
	}
	go func() {
		slog.Info("✅ HTTP API listening", slog.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", slog.Any("error", err))
			stop()
		}
	}()

	slog.InfoContext(ctx, "✨ poly-market fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal or feed termination. Without reconnect a
	// dropped transport ends the session.
	select {
	case <-ctx.Done():
	case <-manager.Done():
		slog.Warn("Market feed terminated", slog.String("state", manager.State().String()))
	}

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown failed", slog.Any("error", err))
	}
}
