package book

import (
	"github.com/shopspring/decimal"
)

// Row pairs the i-th best bid with the i-th best ask. The sides are
// ranked independently; a side exhausted at this rank leaves its cells
// nil, which renders as empty rather than erroring.
type Row struct {
	BidPrice *decimal.Decimal `json:"bid_price,omitempty"`
	BidSize  *decimal.Decimal `json:"bid_size,omitempty"`
	BidTotal *decimal.Decimal `json:"bid_total,omitempty"`
	AskPrice *decimal.Decimal `json:"ask_price,omitempty"`
	AskSize  *decimal.Decimal `json:"ask_size,omitempty"`
	AskTotal *decimal.Decimal `json:"ask_total,omitempty"`
}

// Project derives up to depth display rows from a book snapshot.
// Totals are size*price for that single row, matching the venue UI's
// display rather than a cumulative depth sum. Read-only: the book is
// never mutated.
func Project(b *Book, depth int) []Row {
	bids := b.Bids.Levels()
	asks := b.Asks.Levels()

	n := len(bids)
	if len(asks) > n {
		n = len(asks)
	}
	if depth > 0 && n > depth {
		n = depth
	}

	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		if i < len(bids) {
			price, size := bids[i].Price, bids[i].Size
			total := size.Mul(price)
			rows[i].BidPrice, rows[i].BidSize, rows[i].BidTotal = &price, &size, &total
		}
		if i < len(asks) {
			price, size := asks[i].Price, asks[i].Size
			total := size.Mul(price)
			rows[i].AskPrice, rows[i].AskSize, rows[i].AskTotal = &price, &size, &total
		}
	}
	return rows
}
