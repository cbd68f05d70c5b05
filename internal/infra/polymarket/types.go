package polymarket

import (
	"encoding/json"
	"fmt"
)

// Event is the Gamma API event metadata payload, trimmed to the fields
// the service consumes.
type Event struct {
	ID      string   `json:"id"`
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Volume  float64  `json:"volume,omitempty"`
	Markets []Market `json:"markets"`
}

// Market is one tradable market within an event. ClobTokenIDs arrives
// as a JSON-encoded string array nested inside a string.
type Market struct {
	ID             string `json:"id"`
	Question       string `json:"question"`
	ConditionID    string `json:"conditionId"`
	GroupItemTitle string `json:"groupItemTitle"`
	Closed         bool   `json:"closed"`
	OutcomePrices  string `json:"outcomePrices"`
	ClobTokenIDs   string `json:"clobTokenIds"`
}

// TokenIDs decodes the clobTokenIds field. One id per outcome; the
// first is the primary ("Yes") token.
func (m Market) TokenIDs() ([]string, error) {
	if m.ClobTokenIDs == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(m.ClobTokenIDs), &ids); err != nil {
		return nil, fmt.Errorf("decode clobTokenIds for market %s: %w", m.ID, err)
	}
	return ids, nil
}

// Instrument pairs a display name with the clob token id to subscribe
// the book feed with.
type Instrument struct {
	Name    string `json:"name"`
	AssetID string `json:"asset_id"`
}

// Instruments derives the subscription scope from an event: open
// markets with outcome prices, a group title, and at least one token
// id, keyed by their primary token.
func (e Event) Instruments() []Instrument {
	var out []Instrument
	for _, m := range e.Markets {
		if m.Closed || m.OutcomePrices == "" || m.GroupItemTitle == "" {
			continue
		}
		ids, err := m.TokenIDs()
		if err != nil || len(ids) == 0 {
			continue
		}
		out = append(out, Instrument{Name: m.GroupItemTitle, AssetID: ids[0]})
	}
	return out
}
