package book

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ZeroNerodaHero/poly-market/pkg/quant"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestParseSide(t *testing.T) {
	cases := []struct {
		in   string
		want Side
		ok   bool
	}{
		{"BUY", Bid, true},
		{"buy", Bid, true},
		{"Buy", Bid, true},
		{"SELL", Ask, true},
		{"sell", Ask, true},
		{"HOLD", 0, false},
		{"", 0, false},
	}

	for _, c := range cases {
		got, ok := ParseSide(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseSide(%q) = (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestUpsertZeroSizeRemoves(t *testing.T) {
	ls := NewLevelSet(Bid, quant.DefaultPricePlaces)

	ls.Upsert(dec(t, "0.32"), dec(t, "100"))
	if ls.Len() != 1 {
		t.Fatalf("expected 1 level, got %d", ls.Len())
	}

	ls.Upsert(dec(t, "0.32"), decimal.Zero)
	if ls.Len() != 0 {
		t.Errorf("zero-size upsert should remove the level, got %d levels", ls.Len())
	}

	// Removing an absent level is a no-op, not an error.
	ls.Upsert(dec(t, "0.99"), decimal.Zero)
	if ls.Len() != 0 {
		t.Errorf("expected empty set, got %d levels", ls.Len())
	}
}

func TestUpsertOverwritesExisting(t *testing.T) {
	ls := NewLevelSet(Ask, quant.DefaultPricePlaces)

	ls.Upsert(dec(t, "0.40"), dec(t, "10"))
	ls.Upsert(dec(t, "0.40"), dec(t, "20"))

	levels := ls.Levels()
	if len(levels) != 1 {
		t.Fatalf("expected 1 level, got %d", len(levels))
	}
	if !levels[0].Size.Equal(dec(t, "20")) {
		t.Errorf("expected size 20 after overwrite, got %s", levels[0].Size)
	}
}

func TestUpsertCollapsesFloatNoise(t *testing.T) {
	ls := NewLevelSet(Bid, quant.DefaultPricePlaces)

	// Both round to 0.32 at 5 decimal places; last upsert wins.
	ls.Upsert(dec(t, "0.320001"), dec(t, "100"))
	ls.Upsert(dec(t, "0.3200049"), dec(t, "250"))

	levels := ls.Levels()
	if len(levels) != 1 {
		t.Fatalf("expected noise to collapse to one level, got %d", len(levels))
	}
	if levels[0].Price.String() != "0.32" {
		t.Errorf("expected normalized price 0.32, got %s", levels[0].Price)
	}
	if !levels[0].Size.Equal(dec(t, "250")) {
		t.Errorf("expected last size 250, got %s", levels[0].Size)
	}
}

func TestLevelsOrdering(t *testing.T) {
	prices := []string{"0.45", "0.12", "0.33", "0.50", "0.02"}

	bids := NewLevelSet(Bid, quant.DefaultPricePlaces)
	asks := NewLevelSet(Ask, quant.DefaultPricePlaces)
	for _, p := range prices {
		bids.Upsert(dec(t, p), dec(t, "1"))
		asks.Upsert(dec(t, p), dec(t, "1"))
	}

	bidLevels := bids.Levels()
	for i := 1; i < len(bidLevels); i++ {
		if bidLevels[i].Price.GreaterThan(bidLevels[i-1].Price) {
			t.Errorf("bids not non-increasing at %d: %s > %s", i, bidLevels[i].Price, bidLevels[i-1].Price)
		}
	}

	askLevels := asks.Levels()
	for i := 1; i < len(askLevels); i++ {
		if askLevels[i].Price.LessThan(askLevels[i-1].Price) {
			t.Errorf("asks not non-decreasing at %d: %s < %s", i, askLevels[i].Price, askLevels[i-1].Price)
		}
	}
}

func TestLevelsIsSnapshotNotLiveCursor(t *testing.T) {
	ls := NewLevelSet(Bid, quant.DefaultPricePlaces)
	ls.Upsert(dec(t, "0.32"), dec(t, "100"))

	snap := ls.Levels()
	ls.Upsert(dec(t, "0.32"), decimal.Zero)

	if len(snap) != 1 {
		t.Errorf("snapshot should reflect state at call time, got %d levels", len(snap))
	}
}
