package feed

import (
	"github.com/ZeroNerodaHero/poly-market/internal/book"
)

// Event is the decoded form of one inbound stream event. The protocol
// defines exactly two kinds; the interface is sealed so the set stays
// closed.
type Event interface {
	isEvent()
}

// BookEvent is a full replacement of one instrument's order book state.
type BookEvent struct {
	Market    string
	AssetID   string
	Timestamp string
	Hash      string
	Bids      []book.Level
	Asks      []book.Level
}

func (*BookEvent) isEvent() {}

// PriceChangeEvent is a batch of level deltas against existing state.
type PriceChangeEvent struct {
	Market    string
	AssetID   string
	Timestamp string
	Hash      string
	Changes   []book.Change
}

func (*PriceChangeEvent) isEvent() {}

// wire shapes, as sent by the venue. Prices and sizes are strings.
type wireLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

type wireChange struct {
	Price string `json:"price"`
	Size  string `json:"size"`
	Side  string `json:"side"`
}

type wireEvent struct {
	EventType string `json:"event_type"`
	Market    string `json:"market"`
	AssetID   string `json:"asset_id"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`

	// Snapshot fields. Pointers so an empty list is distinguishable
	// from an absent one: "book" requires both lists present.
	Bids *[]wireLevel `json:"bids"`
	Asks *[]wireLevel `json:"asks"`

	// Incremental field.
	Changes []wireChange `json:"changes"`
}

type subscribeRequest struct {
	AssetIDs []string `json:"assets_ids"`
	Type     string   `json:"type"`
}
