package feed

import (
	"encoding/json"

	"github.com/ZeroNerodaHero/poly-market/internal/book"
	"github.com/ZeroNerodaHero/poly-market/pkg/quant"
)

// Classify inspects one decoded event object and returns its concrete
// kind. The dispatch is a closed tagged union over event_type:
//
//   - "book" with both a bids and an asks list (either may be empty)
//     becomes a BookEvent;
//   - "price_change" with a non-empty changes list becomes a
//     PriceChangeEvent;
//   - anything else, including payloads that fail to decode, returns
//     nil and is the caller's to log and drop.
//
// Classification never mutates state.
func Classify(raw json.RawMessage) Event {
	var ev wireEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil
	}

	switch ev.EventType {
	case "book":
		if ev.Bids == nil || ev.Asks == nil {
			return nil
		}
		bids, ok := parseLevels(*ev.Bids)
		if !ok {
			return nil
		}
		asks, ok := parseLevels(*ev.Asks)
		if !ok {
			return nil
		}
		return &BookEvent{
			Market:    ev.Market,
			AssetID:   ev.AssetID,
			Timestamp: ev.Timestamp,
			Hash:      ev.Hash,
			Bids:      bids,
			Asks:      asks,
		}

	case "price_change":
		if len(ev.Changes) == 0 {
			return nil
		}
		changes := make([]book.Change, 0, len(ev.Changes))
		for _, ch := range ev.Changes {
			side, ok := book.ParseSide(ch.Side)
			if !ok {
				return nil
			}
			price, err := quant.Parse(ch.Price)
			if err != nil {
				return nil
			}
			size, err := quant.Parse(ch.Size)
			if err != nil {
				return nil
			}
			changes = append(changes, book.Change{Price: price, Size: size, Side: side})
		}
		return &PriceChangeEvent{
			Market:    ev.Market,
			AssetID:   ev.AssetID,
			Timestamp: ev.Timestamp,
			Hash:      ev.Hash,
			Changes:   changes,
		}
	}

	return nil
}

func parseLevels(in []wireLevel) ([]book.Level, bool) {
	out := make([]book.Level, 0, len(in))
	for _, lv := range in {
		price, err := quant.Parse(lv.Price)
		if err != nil {
			return nil, false
		}
		size, err := quant.Parse(lv.Size)
		if err != nil {
			return nil, false
		}
		out = append(out, book.Level{Price: price, Size: size})
	}
	return out, true
}
