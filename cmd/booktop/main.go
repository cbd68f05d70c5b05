package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ZeroNerodaHero/poly-market/internal/book"
	"github.com/ZeroNerodaHero/poly-market/internal/feed"
	"github.com/ZeroNerodaHero/poly-market/internal/infra"
	"github.com/ZeroNerodaHero/poly-market/internal/infra/polymarket"
	"github.com/ZeroNerodaHero/poly-market/pkg/quant"
)

// booktop subscribes to a set of Polymarket order books and prints the
// top rows of each on an interval. Handy for eyeballing a live market
// without running the full service.
func main() {
	var (
		slug     = flag.String("slug", "", "gamma event slug to resolve instruments from")
		assets   = flag.String("assets", "", "comma-separated asset ids (overrides -slug)")
		depth    = flag.Int("depth", 5, "rows per book")
		interval = flag.Duration("interval", 2*time.Second, "print interval")
		wsURL    = flag.String("ws", "", "websocket endpoint (default from config)")
	)
	flag.Parse()

	cfg := infra.DefaultConfig()
	if *wsURL != "" {
		cfg.API.WSURL = *wsURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	names := map[string]string{}
	var assetIDs []string
	switch {
	case *assets != "":
		for _, id := range strings.Split(*assets, ",") {
			if id = strings.TrimSpace(id); id != "" {
				assetIDs = append(assetIDs, id)
			}
		}
	case *slug != "":
		client := polymarket.NewClient(cfg)
		ev, err := client.EventBySlug(ctx, *slug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolve %s: %v\n", *slug, err)
			os.Exit(1)
		}
		fmt.Printf("=== %s ===\n", ev.Title)
		for _, in := range ev.Instruments() {
			assetIDs = append(assetIDs, in.AssetID)
			names[in.AssetID] = in.Name
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: booktop -slug <event-slug> | -assets <id,id,...>")
		os.Exit(1)
	}

	registry := book.NewRegistry(cfg.Book.PricePlaces)
	manager := feed.NewManager(cfg.API.WSURL, assetIDs, registry, feed.Options{})
	manager.Start(ctx)
	defer manager.Stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-manager.Done():
			fmt.Fprintln(os.Stderr, "feed closed")
			return
		case <-ticker.C:
			printBooks(registry, names, *depth)
		}
	}
}

func printBooks(registry *book.Registry, names map[string]string, depth int) {
	ids := registry.AssetIDs()
	if len(ids) == 0 {
		fmt.Println("… waiting for snapshots")
		return
	}

	for _, id := range ids {
		b, ok := registry.Snapshot(id)
		if !ok {
			continue
		}
		name := names[id]
		if name == "" {
			name = id
		}
		fmt.Printf("\n📊 %s  [%s %s]\n", name, stamp(b.Timestamp), b.Hash)
		fmt.Printf("%12s %12s %10s | %-10s %-12s %-12s\n",
			"BID TOTAL", "BID SIZE", "BID", "ASK", "ASK SIZE", "ASK TOTAL")
		for _, row := range book.Project(b, depth) {
			fmt.Printf("%12s %12s %10s | %-10s %-12s %-12s\n",
				cell(row.BidTotal, quant.Dollars),
				cell(row.BidSize, quant.Shares),
				cell(row.BidPrice, quant.Cents),
				cell(row.AskPrice, quant.Cents),
				cell(row.AskSize, quant.Shares),
				cell(row.AskTotal, quant.Dollars))
		}
	}
}

func cell(v *decimal.Decimal, format func(decimal.Decimal) string) string {
	if v == nil {
		return ""
	}
	return format(*v)
}

// stamp renders a millisecond epoch string as local wall-clock time.
func stamp(ts string) string {
	ms, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ts
	}
	return time.UnixMilli(ms).Format("15:04:05")
}
