package book

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ZeroNerodaHero/poly-market/pkg/quant"
)

// Side identifies one half of an order book.
type Side uint8

const (
	Bid Side = iota + 1
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "BID"
	}
	return "ASK"
}

// ParseSide maps a wire-format side tag to a Side. The venue sends
// "BUY"/"SELL" in mixed case; BUY targets bids, SELL targets asks.
func ParseSide(s string) (Side, bool) {
	switch strings.ToUpper(s) {
	case "BUY":
		return Bid, true
	case "SELL":
		return Ask, true
	default:
		return 0, false
	}
}

// Level is one (price, size) pair on one side of a book.
type Level struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// LevelSet holds the levels of one book side, keyed by normalized price.
// A zero size is never stored: on the wire it encodes removal.
type LevelSet struct {
	side   Side
	places int32
	levels map[string]Level
}

// NewLevelSet creates an empty side with the given normalization precision.
func NewLevelSet(side Side, places int32) *LevelSet {
	return &LevelSet{
		side:   side,
		places: places,
		levels: make(map[string]Level),
	}
}

// Upsert inserts a level or overwrites the size of the level at the same
// normalized price. A size of zero (or below) removes the level instead.
// Inputs are authoritative; there are no error conditions.
func (ls *LevelSet) Upsert(price, size decimal.Decimal) {
	p := quant.Normalize(price, ls.places)
	key := p.String()

	if size.Sign() <= 0 {
		delete(ls.levels, key)
		return
	}
	ls.levels[key] = Level{Price: p, Size: size}
}

// Len returns the number of levels currently held.
func (ls *LevelSet) Len() int { return len(ls.levels) }

// Levels returns the current levels sorted by the side convention:
// bids descending by price, asks ascending. The slice is a point-in-time
// snapshot, not a live cursor.
func (ls *LevelSet) Levels() []Level {
	out := make([]Level, 0, len(ls.levels))
	for _, lv := range ls.levels {
		out = append(out, lv)
	}

	sort.Slice(out, func(i, j int) bool {
		if ls.side == Bid {
			return out[i].Price.GreaterThan(out[j].Price)
		}
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}

func (ls *LevelSet) clone() *LevelSet {
	cp := &LevelSet{
		side:   ls.side,
		places: ls.places,
		levels: make(map[string]Level, len(ls.levels)),
	}
	for k, v := range ls.levels {
		cp.levels[k] = v
	}
	return cp
}
