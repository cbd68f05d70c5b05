package book

import (
	"github.com/shopspring/decimal"
)

// Book is the maintained order book of one tradable instrument.
// Timestamp and Hash reflect the most recently applied event; arrival
// order is assumed monotonic upstream, not enforced here.
type Book struct {
	MarketID  string
	AssetID   string
	Timestamp string
	Hash      string
	Bids      *LevelSet
	Asks      *LevelSet
}

// Change is one level delta from an incremental price-change batch.
type Change struct {
	Price decimal.Decimal
	Size  decimal.Decimal
	Side  Side
}

// NewBook creates an empty book for one instrument.
func NewBook(marketID, assetID string, places int32) *Book {
	return &Book{
		MarketID: marketID,
		AssetID:  assetID,
		Bids:     NewLevelSet(Bid, places),
		Asks:     NewLevelSet(Ask, places),
	}
}

// ApplySnapshot rebuilds both sides wholesale from the given levels.
// This is an idempotent full replace, not a merge.
func (b *Book) ApplySnapshot(timestamp, hash string, bids, asks []Level) {
	b.Bids = NewLevelSet(Bid, b.Bids.places)
	b.Asks = NewLevelSet(Ask, b.Asks.places)

	for _, lv := range bids {
		b.Bids.Upsert(lv.Price, lv.Size)
	}
	for _, lv := range asks {
		b.Asks.Upsert(lv.Price, lv.Size)
	}

	b.Timestamp = timestamp
	b.Hash = hash
}

// ApplyChanges applies one incremental batch in array order. Later
// entries for the same normalized price override earlier ones.
// Timestamp and hash move to the batch's values once all changes land.
func (b *Book) ApplyChanges(timestamp, hash string, changes []Change) {
	for _, ch := range changes {
		b.side(ch.Side).Upsert(ch.Price, ch.Size)
	}
	b.Timestamp = timestamp
	b.Hash = hash
}

func (b *Book) side(s Side) *LevelSet {
	if s == Bid {
		return b.Bids
	}
	return b.Asks
}

// Clone returns a deep copy safe to hand to readers.
func (b *Book) Clone() *Book {
	return &Book{
		MarketID:  b.MarketID,
		AssetID:   b.AssetID,
		Timestamp: b.Timestamp,
		Hash:      b.Hash,
		Bids:      b.Bids.clone(),
		Asks:      b.Asks.clone(),
	}
}
