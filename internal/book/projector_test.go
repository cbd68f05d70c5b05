package book

import (
	"testing"

	"github.com/ZeroNerodaHero/poly-market/pkg/quant"
)

func testBook(t *testing.T) *Book {
	t.Helper()
	b := NewBook("0xmarket", assetX, quant.DefaultPricePlaces)
	b.ApplySnapshot("1730612345678", "0xhash",
		[]Level{
			{Price: dec(t, "0.30"), Size: dec(t, "100")},
			{Price: dec(t, "0.32"), Size: dec(t, "40")},
			{Price: dec(t, "0.28"), Size: dec(t, "10")},
		},
		[]Level{
			{Price: dec(t, "0.35"), Size: dec(t, "50")},
		},
	)
	return b
}

func TestProjectPairsRanksIndependently(t *testing.T) {
	rows := Project(testBook(t), 10)

	// 3 bids vs 1 ask: row count follows the deeper side.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// Row 0: best bid 0.32 with best ask 0.35.
	if rows[0].BidPrice.String() != "0.32" {
		t.Errorf("row 0 bid price = %s, want 0.32", rows[0].BidPrice)
	}
	if rows[0].AskPrice.String() != "0.35" {
		t.Errorf("row 0 ask price = %s, want 0.35", rows[0].AskPrice)
	}

	// Rows past the ask depth have empty ask cells, not errors.
	if rows[1].AskPrice != nil || rows[2].AskPrice != nil {
		t.Error("exhausted ask side should leave nil cells")
	}
	if rows[1].BidPrice.String() != "0.3" || rows[2].BidPrice.String() != "0.28" {
		t.Errorf("bids not ranked: %s, %s", rows[1].BidPrice, rows[2].BidPrice)
	}
}

func TestProjectPerRowTotals(t *testing.T) {
	rows := Project(testBook(t), 10)

	// Totals are size*price for the row alone, not cumulative depth.
	if rows[0].BidTotal.String() != "12.8" { // 40 * 0.32
		t.Errorf("row 0 bid total = %s, want 12.8", rows[0].BidTotal)
	}
	if rows[0].AskTotal.String() != "17.5" { // 50 * 0.35
		t.Errorf("row 0 ask total = %s, want 17.5", rows[0].AskTotal)
	}
	if rows[1].BidTotal.String() != "30" { // 100 * 0.30
		t.Errorf("row 1 bid total = %s, want 30", rows[1].BidTotal)
	}
}

func TestProjectDepthLimit(t *testing.T) {
	rows := Project(testBook(t), 2)
	if len(rows) != 2 {
		t.Errorf("expected depth-limited 2 rows, got %d", len(rows))
	}

	// depth <= 0 means unlimited.
	rows = Project(testBook(t), 0)
	if len(rows) != 3 {
		t.Errorf("expected 3 rows with no limit, got %d", len(rows))
	}
}

func TestProjectDoesNotMutate(t *testing.T) {
	b := testBook(t)
	before := b.Bids.Len() + b.Asks.Len()
	_ = Project(b, 10)
	if b.Bids.Len()+b.Asks.Len() != before {
		t.Error("projection mutated the book")
	}
}
